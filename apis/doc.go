/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package apis defines the small contracts shared by the safemem packages.
//
// The transfer core, the constraint handlers and the transport adapters all
// meet here: a violation is described by a Report, handed to a Handler, and
// later projected into an ErrorView or ErrorDescriptor with the statuses a
// Mapper resolves. Keeping these types in a dependency-light package lets
// handler implementations and adapters avoid importing each other.
package apis
