package main

import (
	"fmt"
	"os"
	"strings"

	"nemde-constraints/internal/config"
	"nemde-constraints/internal/export"
	"nemde-constraints/internal/mms"
	"nemde-constraints/internal/model"
	"nemde-constraints/internal/nemde"
	"nemde-constraints/internal/render"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	flagConfig  string
	flagYear    int
	flagMonth   int
	flagVerbose bool
)

func main() {
	root := &cobra.Command{
		Use:           "nemde",
		Short:         "Look up NEMDE constraint equation formulations from the public archive",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config (optional)")
	root.PersistentFlags().IntVar(&flagYear, "year", 0, "Archive year, e.g. 2023")
	root.PersistentFlags().IntVar(&flagMonth, "month", 0, "Archive month, 1-12")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log archive requests")

	root.AddCommand(
		newListCmd(),
		newFindCmd(),
		newSearchCmd(),
		newDetailsCmd(),
		newTermsCmd("lhs", "Print the LHS terms of a constraint equation"),
		newTermsCmd("rhs", "Print the RHS terms of a constraint equation"),
		newFuncCmd(),
		newDumpCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newService() (*nemde.Service, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	logger := zap.NewNop()
	if flagVerbose {
		zcfg := zap.NewDevelopmentConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		logger, err = zcfg.Build()
		if err != nil {
			return nil, err
		}
	}
	client := mms.NewClient(cfg.Archive.BaseURL, cfg.Archive.Timeout(), logger)
	return nemde.New(client, logger), nil
}

func requirePeriod() error {
	if flagYear == 0 || flagMonth == 0 {
		return fmt.Errorf("--year and --month are required")
	}
	return nil
}

func newListCmd() *cobra.Command {
	var prefix, out string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List constraints published for a month/year",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePeriod(); err != nil {
				return err
			}
			svc, err := newService()
			if err != nil {
				return err
			}
			records, err := svc.ConstraintList(cmd.Context(), flagYear, flagMonth, prefix)
			if err != nil {
				return err
			}
			if out != "" {
				return writeCSVFile(out, func(f *os.File) error {
					return export.WriteConstraintsCSV(f, records)
				})
			}
			printConstraints(records)
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "Filter by constraint ID prefix, e.g. 'Q_'")
	cmd.Flags().StringVar(&out, "out", "", "Write the listing to a CSV file instead of stdout")
	return cmd
}

func newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find QUERY",
		Short: "Search a month's constraints by ID or description substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePeriod(); err != nil {
				return err
			}
			svc, err := newService()
			if err != nil {
				return err
			}
			listing, err := svc.ConstraintList(cmd.Context(), flagYear, flagMonth, "")
			if err != nil {
				return err
			}
			matches := nemde.FindConstraint(args[0], listing)
			if len(matches) == 0 {
				fmt.Printf("no constraints matching %q in %04d-%02d\n", args[0], flagYear, flagMonth)
				return nil
			}
			printConstraints(matches)
			return nil
		},
	}
}

func newSearchCmd() *cobra.Command {
	var fromStr, toStr string
	cmd := &cobra.Command{
		Use:   "search PATTERN",
		Short: "Walk the archive backwards for the last publication of a constraint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			from, err := parsePeriodFlag(fromStr)
			if err != nil {
				return err
			}
			to, err := parsePeriodFlag(toStr)
			if err != nil {
				return err
			}
			matches, period, err := svc.SearchArchive(cmd.Context(), args[0], from, to)
			if err != nil {
				return err
			}
			fmt.Printf("found in archive period %s:\n", period)
			printConstraints(matches)
			return nil
		},
	}
	cmd.Flags().StringVar(&fromStr, "from", "", "Earliest period to search, YYYY-MM (default 2009-07)")
	cmd.Flags().StringVar(&toStr, "to", "", "Latest period to search, YYYY-MM (default two months ago)")
	return cmd
}

func newDetailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details CONSTRAINT_ID",
		Short: "Print the full formulation of a constraint equation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePeriod(); err != nil {
				return err
			}
			svc, err := newService()
			if err != nil {
				return err
			}
			details, err := svc.ConstraintDetails(cmd.Context(), args[0], flagYear, flagMonth)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", details.Constraint.ID)
			fmt.Printf("  %s\n\n", details.Constraint.Description)
			fmt.Printf("%s\n\n", render.Equation(*details))
			fmt.Println("LHS terms:")
			printLHSTerms(details.LHS)
			fmt.Println()
			fmt.Println("RHS terms:")
			printRHSTerms(details.RHS)
			return nil
		},
	}
}

func newTermsCmd(side, short string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   side + " CONSTRAINT_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePeriod(); err != nil {
				return err
			}
			svc, err := newService()
			if err != nil {
				return err
			}
			if side == "lhs" {
				terms, err := svc.LHSTerms(cmd.Context(), args[0], flagYear, flagMonth)
				if err != nil {
					return err
				}
				if out != "" {
					return writeCSVFile(out, func(f *os.File) error {
						return export.WriteLHSTermsCSV(f, terms)
					})
				}
				printLHSTerms(terms)
				return nil
			}
			terms, err := svc.RHSTerms(cmd.Context(), args[0], flagYear, flagMonth)
			if err != nil {
				return err
			}
			if out != "" {
				return writeCSVFile(out, func(f *os.File) error {
					return export.WriteRHSTermsCSV(f, terms)
				})
			}
			printRHSTerms(terms)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Write terms to a CSV file instead of stdout")
	return cmd
}

func newFuncCmd() *cobra.Command {
	funcCmd := &cobra.Command{
		Use:   "func",
		Short: "Look up generic RHS functions",
	}

	funcCmd.AddCommand(&cobra.Command{
		Use:   "find QUERY",
		Short: "Search a month's generic functions by ID or description substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePeriod(); err != nil {
				return err
			}
			svc, err := newService()
			if err != nil {
				return err
			}
			listing, err := svc.GenericFunctionList(cmd.Context(), flagYear, flagMonth)
			if err != nil {
				return err
			}
			matches := nemde.FindGenericFunction(args[0], listing)
			if len(matches) == 0 {
				fmt.Printf("no generic functions matching %q in %04d-%02d\n", args[0], flagYear, flagMonth)
				return nil
			}
			for _, fn := range matches {
				fmt.Printf("%-28s %s\n", fn.ID, fn.Description)
			}
			return nil
		},
	})

	var fromStr, toStr string
	searchCmd := &cobra.Command{
		Use:   "search PATTERN",
		Short: "Walk the archive backwards for the last publication of a generic function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			from, err := parsePeriodFlag(fromStr)
			if err != nil {
				return err
			}
			to, err := parsePeriodFlag(toStr)
			if err != nil {
				return err
			}
			matches, period, err := svc.SearchFunctionArchive(cmd.Context(), args[0], from, to)
			if err != nil {
				return err
			}
			fmt.Printf("found in archive period %s:\n", period)
			for _, fn := range matches {
				fmt.Printf("%-28s %s\n", fn.ID, fn.Description)
			}
			return nil
		},
	}
	searchCmd.Flags().StringVar(&fromStr, "from", "", "Earliest period to search, YYYY-MM (default 2009-07)")
	searchCmd.Flags().StringVar(&toStr, "to", "", "Latest period to search, YYYY-MM (default two months ago)")
	funcCmd.AddCommand(searchCmd)

	var out string
	getCmd := &cobra.Command{
		Use:   "get FUNCTION_ID",
		Short: "Print the defining terms of a generic RHS function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePeriod(); err != nil {
				return err
			}
			svc, err := newService()
			if err != nil {
				return err
			}
			terms, err := svc.GenericFunctionTerms(cmd.Context(), args[0], flagYear, flagMonth)
			if err != nil {
				return err
			}
			if out != "" {
				return writeCSVFile(out, func(f *os.File) error {
					return export.WriteRHSTermsCSV(f, terms)
				})
			}
			printRHSTerms(terms)
			return nil
		},
	}
	getCmd.Flags().StringVar(&out, "out", "", "Write terms to a CSV file instead of stdout")
	funcCmd.AddCommand(getCmd)

	return funcCmd
}

func newDumpCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print rows from a locally downloaded report (.zip or .CSV)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := mms.LoadTableFile(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("table %s: %d rows\n", t.Name, len(t.Rows))
			fmt.Println(strings.Join(t.Header, ","))
			rows := t.Rows
			if limit > 0 && limit < len(rows) {
				rows = rows[:limit]
			}
			for _, row := range rows {
				fmt.Println(strings.Join(row, ","))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit to first N rows (0=all)")
	return cmd
}

func printConstraints(records []model.ConstraintRecord) {
	fmt.Printf("%-28s %-4s %s\n", "id", "type", "description")
	for _, r := range records {
		fmt.Printf("%-28s %-4s %s\n", r.ID, r.ConstraintType, r.Description)
	}
	fmt.Printf("%d constraints\n", len(records))
}

func printLHSTerms(terms []model.LHSTerm) {
	fmt.Printf("%-5s %-16s %-16s %-12s %-8s %s\n", "spot", "type", "id", "duid", "bidtype", "factor")
	for _, t := range terms {
		fmt.Printf("%-5d %-16s %-16s %-12s %-8s %.4f\n", t.Spot, t.Type, t.SPDID, t.DUID, t.BidType, t.Factor)
	}
}

func printRHSTerms(terms []model.RHSTerm) {
	fmt.Printf("%-5s %-24s %-5s %-10s %-8s %s\n", "spot", "id", "type", "factor", "op", "description")
	for _, t := range terms {
		fmt.Printf("%-5d %-24s %-5s %-10.4f %-8s %s\n", t.Spot, t.SPDID, t.SPDType, t.Factor, t.Operation, t.Description)
	}
}

func parsePeriodFlag(s string) (model.Period, error) {
	if s == "" {
		return model.Period{}, nil
	}
	var year, month int
	if _, err := fmt.Sscanf(s, "%d-%d", &year, &month); err != nil {
		return model.Period{}, fmt.Errorf("invalid period %q (expected YYYY-MM)", s)
	}
	if month < 1 || month > 12 {
		return model.Period{}, fmt.Errorf("invalid month in period %q", s)
	}
	return model.Period{Year: year, Month: month}, nil
}

func writeCSVFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := write(f); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
