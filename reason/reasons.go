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

package reason

// Reasons emitted by the transfer validator, one per check.
const (
	DestNull             Reason = "dest.null"
	SrcNull              Reason = "src.null"
	DestCapacityZero     Reason = "dest.capacity.zero"
	DestCapacityMax      Reason = "dest.capacity.max"
	SrcCountMax          Reason = "src.count.max"
	SrcCountWrap         Reason = "src.count.wrap"
	DestStaticOverflow   Reason = "dest.static.overflow"
	SrcStaticOverflow    Reason = "src.static.overflow"
	DestDeclaredMismatch Reason = "dest.declared.mismatch"
	DestSpace            Reason = "dest.space"
	Overlap              Reason = "overlap"
)

// Known returns every reason the validator can emit, in check order.
func Known() []Reason {
	return []Reason{
		DestNull,
		SrcNull,
		DestCapacityZero,
		DestCapacityMax,
		SrcCountMax,
		SrcCountWrap,
		DestStaticOverflow,
		SrcStaticOverflow,
		DestDeclaredMismatch,
		DestSpace,
		Overlap,
	}
}
