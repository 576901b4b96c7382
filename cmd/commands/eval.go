package commands

import (
	"strconv"

	fxnum "github.com/beatoz/fxnum-go"
	"github.com/beatoz/fxnum-go/fxmath"
	"github.com/beatoz/fxnum-go/libs/jsonx"
	"github.com/beatoz/fxnum-go/types/xerrors"
	"github.com/spf13/cobra"
)

type evalResult struct {
	Op     string      `json:"op"`
	Args   []string    `json:"args"`
	Result fxnum.FxNum `json:"result"`
}

// NewEvalCmds returns one subcommand per engine operation. Each command
// only parses canonical text, calls the engine, and prints the canonical
// result; all numeric behavior lives in fxnum/fxmath.
func NewEvalCmds() []*cobra.Command {
	return []*cobra.Command{
		newBinaryCmd("add", "add two values", fxnum.FxNum.Add),
		newBinaryCmd("sub", "subtract y from x", fxnum.FxNum.Sub),
		newBinaryCmd("mul", "multiply two values", fxnum.FxNum.Mul),
		newBinaryCmd("div", "divide x by y", fxnum.FxNum.Div),
		newBinaryCmd("pow", "raise x to the fixed-point power y", fxmath.Pow),
		newUnaryCmd("ln", "natural logarithm", fxmath.Ln),
		newUnaryCmd("exp", "natural exponential", fxmath.Exp),
		newUnaryCmd("sqrt", "square root", fxmath.Sqrt),
		newUnaryCmd("cdf", "standard normal CDF", fxmath.NormCDF),
		newUnaryCmd("pdf", "standard normal PDF", fxmath.NormPDF),
		newPowIntCmd(),
	}
}

func newUnaryCmd(use, short string, f func(fxnum.FxNum) (fxnum.FxNum, xerrors.XError)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <x>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, xerr := fxnum.Parse(args[0], rootConfig.Decimals)
			if xerr != nil {
				return xerr
			}
			r, xerr := f(x)
			if xerr != nil {
				return xerr
			}
			return printResult(cmd, use, args, r)
		},
	}
}

func newBinaryCmd(use, short string, f func(fxnum.FxNum, fxnum.FxNum) (fxnum.FxNum, xerrors.XError)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <x> <y>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, xerr := fxnum.Parse(args[0], rootConfig.Decimals)
			if xerr != nil {
				return xerr
			}
			y, xerr := fxnum.Parse(args[1], rootConfig.Decimals)
			if xerr != nil {
				return xerr
			}
			r, xerr := f(x, y)
			if xerr != nil {
				return xerr
			}
			return printResult(cmd, use, args, r)
		},
	}
}

func newPowIntCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "powi <x> <n>",
		Short: "raise x to the integer power n",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, xerr := fxnum.Parse(args[0], rootConfig.Decimals)
			if xerr != nil {
				return xerr
			}
			n, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return xerrors.ErrParse.Wrap(err)
			}
			r, xerr := fxmath.PowInt(x, n)
			if xerr != nil {
				return xerr
			}
			return printResult(cmd, "powi", args, r)
		},
	}
}

func printResult(cmd *cobra.Command, op string, args []string, r fxnum.FxNum) error {
	if !rootConfig.JSON {
		cmd.Println(r.String())
		return nil
	}
	data, err := jsonx.Marshal(evalResult{Op: op, Args: args, Result: r})
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}
