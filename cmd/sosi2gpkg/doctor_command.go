package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sosi2gpkg/internal/deps"
	"sosi2gpkg/internal/preflight"
	"sosi2gpkg/internal/services"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that ogr2ogr and the working directories are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			rep := &report{colorize: shouldColorize(out)}

			rep.section("Configuration")
			if ctx.configSeen {
				rep.add("Config", statusOK, ctx.configPath)
			} else {
				rep.add("Config", statusInfo, "defaults (no file at "+ctx.configPath+")")
			}
			rep.add("Workaround retry", statusInfo, workaroundDetail(cfg.Workaround.Enabled, cfg.Workaround.TargetEncoding))

			rep.section("Dependencies")
			statuses := preflight.CheckSystemDeps(cfg)
			missingRequired := addDependencies(rep, statuses)
			if statuses[0].Available {
				version := preflight.CheckOgr2ogrVersion(cmd.Context(), statuses[0].Command)
				kind := statusOK
				if !version.Passed {
					kind = statusWarn
				}
				rep.add(version.Name, kind, version.Detail)
			}

			rep.section("Directories")
			results := preflight.RunAll(cmd.Context(), cfg)
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				rep.add(result.Name, kind, result.Detail)
			}

			fmt.Fprintln(out, rep.String())

			if missingRequired > 0 || len(preflight.Failed(results)) > 0 {
				return reportedError{err: services.Wrap(services.ErrConfiguration, "doctor", "", "environment is not ready", nil)}
			}
			return nil
		},
	}
}

// addDependencies reports each dependency and returns how many required
// ones are missing.
func addDependencies(rep *report, statuses []deps.Status) int {
	missing := 0
	for _, dep := range statuses {
		if dep.Available {
			detail := "Ready"
			if dep.Command != "" {
				detail = fmt.Sprintf("Ready (command: %s)", dep.Command)
			}
			rep.add(dep.Name, statusOK, detail)
			continue
		}
		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
		} else {
			missing++
		}
		rep.add(dep.Name, kind, detail)
	}
	return missing
}

func workaroundDetail(enabled bool, encoding string) string {
	if !enabled {
		return "disabled"
	}
	return "enabled (" + encoding + ")"
}
