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

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dirpx.dev/safemem"
	"dirpx.dev/safemem/apis"
	"dirpx.dev/safemem/code"
	"dirpx.dev/safemem/config"
	"dirpx.dev/safemem/handler"
	"dirpx.dev/safemem/mapper"
	"dirpx.dev/safemem/reason"
)

type rootOptions struct {
	configPath string
	envFiles   []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "safememctl",
		Short:         "Inspect and dry-run bounds-checked memory transfers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "env files to load (default .env when present)")

	root.AddCommand(newCodesCmd(), newExplainCmd(), newCheckCmd(opts))
	return root
}

// load resolves the configuration: defaults, then --config, then env files
// and SAFEMEM_* variables.
func (o *rootOptions) load() (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}
	if err := config.LoadEnvFiles(o.envFiles...); err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func newCodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "codes",
		Short: "List violation codes in check order with their transport statuses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := mapper.New()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ORDER\tCODE\tERRNO\tHTTP\tGRPC")
			for _, c := range code.All() {
				st := m.Status(c, reason.Empty)
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", c.Precedence(), c, c.Errno(), st.HTTP, st.GRPC)
			}
			return tw.Flush()
		},
	}
}

func newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <code|errno> [reason]",
		Short: "Show how a violation resolves to HTTP and gRPC statuses",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := code.Parse(args[0])
			if err != nil {
				return err
			}
			r := reason.Empty
			if len(args) == 2 {
				if r, err = reason.Parse(args[1]); err != nil {
					return err
				}
			}
			m, err := mapper.New()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), m.Explain(c, r))
			return err
		},
		Example: `  safememctl explain insufficient_space dest.space
  safememctl explain -- -406`,
	}
}

type checkOptions struct {
	width       int
	destBytes   uint64
	declared    int64
	srcBytes    int64
	count       uint64
	aliasOffset int
	move        bool
	raw         bool
	strict      bool
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	o := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run one transfer against scratch buffers and report the outcome",
		Long: `Allocates a destination filled with 0xA5 and a source filled with an
ascending pattern, runs the transfer through a guard built from the
configuration, and prints the result and how many destination bytes were
zero-filled. Violations are recorded and logged, never fatal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("strict") {
				cfg.StrictDeclaredSize = o.strict
			}
			log, err := cfg.Logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return runCheck(cmd, cfg, log, o)
		},
	}
	f := cmd.Flags()
	f.IntVar(&o.width, "width", 8, "element width in bits: 8, 16 or 32")
	f.Uint64Var(&o.destBytes, "dest-bytes", 16, "size of the destination buffer in bytes")
	f.Int64Var(&o.declared, "declared", -1, "declared destination capacity in bytes (default dest-bytes)")
	f.Int64Var(&o.srcBytes, "src-bytes", -1, "size of the source buffer in bytes (default count*width)")
	f.Uint64Var(&o.count, "count", 1, "number of elements to transfer")
	f.IntVar(&o.aliasOffset, "alias-offset", -1, "carve the source from the destination at this byte offset")
	f.BoolVar(&o.move, "move", false, "allow overlap (move instead of copy)")
	f.BoolVar(&o.raw, "raw", false, "describe the destination by pointer and declared size only")
	f.BoolVar(&o.strict, "strict", false, "require declared capacity to equal the buffer size")
	return cmd
}

func runCheck(cmd *cobra.Command, cfg config.Config, log *zap.Logger, o *checkOptions) error {
	// The configured policy may abort; a dry run only records.
	cfg.Handler.Policy = handler.PolicyIgnore
	g, err := cfg.Build(log, nil)
	if err != nil {
		return err
	}
	rec := handler.NewRecorder()
	g = g.With(safemem.WithHandler(handler.Chain(rec, handler.Log(log))))

	var res checkResult
	switch o.width {
	case 8:
		res, err = checkWidth[uint8](g, o)
	case 16:
		res, err = checkWidth[uint16](g, o)
	case 32:
		res, err = checkWidth[uint32](g, o)
	default:
		return fmt.Errorf("unsupported width %d", o.width)
	}
	if err != nil {
		return err
	}
	if r, ok := rec.Last(); ok {
		res.report = &r
	}
	return res.print(cmd)
}

type checkResult struct {
	op     string
	err    error
	moved  uint64
	zeroed int
	report *apis.Report
}

func (r checkResult) print(cmd *cobra.Command) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 1, ' ', 0)
	fmt.Fprintf(tw, "op:\t%s\n", r.op)
	if r.err == nil {
		fmt.Fprintln(tw, "result:\tok")
		fmt.Fprintf(tw, "moved:\t%d bytes\n", r.moved)
		return tw.Flush()
	}
	c, _ := safemem.CodeOf(r.err)
	fmt.Fprintf(tw, "result:\t%s (errno %d)\n", c, safemem.Errno(r.err))
	if r.report != nil {
		fmt.Fprintf(tw, "reason:\t%s\n", r.report.Reason)
		fmt.Fprintf(tw, "side:\t%s\n", r.report.Side)
		fmt.Fprintf(tw, "cleared:\t%d bytes\n", r.report.Cleared)
	}
	fmt.Fprintf(tw, "zeroed:\t%d bytes\n", r.zeroed)
	return tw.Flush()
}

// checkWidth allocates the scratch buffers for element type E and runs the
// transfer.
func checkWidth[E safemem.Element](g *safemem.Guard, o *checkOptions) (checkResult, error) {
	w := uint64(safemem.WidthOf[E]())
	declared := o.destBytes
	if o.declared >= 0 {
		declared = uint64(o.declared)
	}
	srcBytes := o.count * w
	if o.srcBytes >= 0 {
		srcBytes = uint64(o.srcBytes)
	}

	backing := o.destBytes
	if o.raw && declared > backing && declared <= g.Limits().MaxBytes {
		// A raw destination is trusted for its declared size.
		backing = declared
	}
	if o.aliasOffset >= 0 {
		if need := uint64(o.aliasOffset) + srcBytes; need > backing {
			backing = need
		}
	}
	fill := uint32(0xa5a5a5a5)
	scratch := make([]E, (backing+w-1)/w)
	for i := range scratch {
		scratch[i] = E(fill)
	}
	dest := scratch[:o.destBytes/w]

	var dst safemem.Buffer[E]
	switch {
	case o.raw && len(scratch) > 0:
		dst = safemem.Raw(&scratch[0], uintptr(declared))
	case o.raw:
		dst = safemem.Null[E]()
	default:
		dst = safemem.Sized(dest, uintptr(declared))
	}

	var src safemem.Buffer[E]
	if o.aliasOffset >= 0 {
		if uint64(o.aliasOffset)%w != 0 {
			return checkResult{}, fmt.Errorf("alias offset %d is not a multiple of %d", o.aliasOffset, w)
		}
		start := uint64(o.aliasOffset) / w
		src = safemem.Slice(scratch[start : start+srcBytes/w])
	} else {
		s := make([]E, srcBytes/w)
		for i := range s {
			s[i] = E(i + 1)
		}
		src = safemem.Slice(s)
	}

	policy := safemem.Forbidden
	if o.move {
		policy = safemem.Tolerant
	}
	err := safemem.Transfer(g, policy, dst, src, uintptr(o.count))

	res := checkResult{op: opLabel(policy, w), err: err}
	if err == nil {
		res.moved = o.count * w
	}
	for _, e := range scratch {
		if e == 0 {
			res.zeroed += int(w)
		}
	}
	return res, nil
}

func opLabel(p safemem.Policy, w uint64) string {
	return fmt.Sprintf("%s%d", p, w*8)
}
