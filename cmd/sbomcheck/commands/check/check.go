// Copyright 2025 venslabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package check

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	engine "github.com/venslabs/sbomcheck/pkg/check"
	"github.com/venslabs/sbomcheck/pkg/envutil"
	"github.com/venslabs/sbomcheck/pkg/loader"
	"github.com/venslabs/sbomcheck/pkg/outputhandler"
	"github.com/venslabs/sbomcheck/pkg/policyconfig"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "check DIRECTORY",
		Short:                 "Validate every SPDX JSON document in a directory",
		Long:                  "Validates each *.spdx.json file in DIRECTORY against the SPDX 2.3 specification and, optionally, an organization's minimum-required-values policy.",
		Example:               Example(),
		Args:                  cobra.ExactArgs(1),
		RunE:                  action,
		DisableFlagsInUseLine: true,
	}

	flags := cmd.Flags()
	flags.String("policy-file", "", "Path to a policy YAML file (default: built-in completeness profile)")
	flags.String("rules", "all", "Rule sets to run ([all specification policy])")
	flags.String("output", "table", "Console output format ([table json])")
	flags.String("report-file", "", "Also write the JSON report to this file")
	flags.String("csv-dir", "", "Also write a <document>_exceptions.csv per failing document into this directory")
	flags.Int("jobs", envutil.Int("SBOMCHECK_JOBS", runtime.NumCPU()), "Number of documents validated concurrently [$SBOMCHECK_JOBS]")
	flags.String("fail-on", string(engine.SeverityPolicy), "Lowest severity that fails the run ([specification policy])")

	return cmd
}

func Example() string {
	return "  sbomcheck check ./sboms\n  sbomcheck check --policy-file policy.yaml --output json ./sboms"
}

func action(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	rules, err := flags.GetString("rules")
	if err != nil {
		return err
	}
	opts := engine.Options{FailOn: engine.SeverityPolicy}
	switch rules {
	case "all":
		opts.Specification = true
		opts.Policy = true
	case "specification":
		opts.Specification = true
	case "policy":
		opts.Policy = true
	default:
		return fmt.Errorf("unknown rule set %q (expected all, specification, or policy)", rules)
	}

	failOn, err := flags.GetString("fail-on")
	if err != nil {
		return err
	}
	opts.FailOn = engine.Severity(failOn)

	opts.Jobs, err = flags.GetInt("jobs")
	if err != nil {
		return err
	}

	// Load the policy before the documents: an invalid policy must fail
	// fast, before any expensive document processing starts.
	var policy *policyconfig.Config
	if opts.Policy {
		policyPath, err := flags.GetString("policy-file")
		if err != nil {
			return err
		}
		if policyPath == "" {
			policy = policyconfig.Default()
			slog.InfoContext(ctx, "Using built-in policy profile")
		} else {
			policy, err = policyconfig.Load(policyPath)
			if err != nil {
				return fmt.Errorf("failed to load policy file %q: %w", policyPath, err)
			}
			slog.InfoContext(ctx, "Policy loaded", "file", policyPath)
		}
	}

	inputs, err := loader.Directory(args[0])
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Documents discovered", "count", len(inputs))

	summary, err := engine.Run(ctx, inputs, policy, opts)
	if err != nil {
		return err
	}

	output, err := flags.GetString("output")
	if err != nil {
		return err
	}
	var handler outputhandler.OutputHandler
	switch output {
	case "table":
		handler = outputhandler.NewConsoleTableOutputHandler(os.Stdout)
	case "json":
		handler = outputhandler.NewJSONOutputHandler(os.Stdout)
	default:
		return fmt.Errorf("unknown output format %q (expected table or json)", output)
	}
	if err := handler.HandleSummary(summary); err != nil {
		return err
	}
	if err := handler.Close(); err != nil {
		return err
	}

	reportFile, err := flags.GetString("report-file")
	if err != nil {
		return err
	}
	if reportFile != "" {
		f, err := os.Create(reportFile)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close() //nolint:errcheck
		fileHandler := outputhandler.NewJSONOutputHandler(f)
		if err := fileHandler.HandleSummary(summary); err != nil {
			return err
		}
		if err := fileHandler.Close(); err != nil {
			return err
		}
		slog.InfoContext(ctx, "JSON report written", "file", reportFile)
	}

	csvDir, err := flags.GetString("csv-dir")
	if err != nil {
		return err
	}
	if csvDir != "" {
		csvHandler := outputhandler.NewCSVExportOutputHandler(csvDir)
		if err := csvHandler.HandleSummary(summary); err != nil {
			return err
		}
		if err := csvHandler.Close(); err != nil {
			return err
		}
		slog.InfoContext(ctx, "CSV exception exports written", "dir", csvDir)
	}

	if summary.Failed(opts.FailOn) {
		return fmt.Errorf("%d of %d documents failed validation", failedCount(summary, opts.FailOn), len(summary.Documents))
	}
	return nil
}

func failedCount(summary *engine.RunSummary, threshold engine.Severity) int {
	count := 0
	for i := range summary.Documents {
		if summary.Documents[i].Failed(threshold) {
			count++
		}
	}
	return count
}
