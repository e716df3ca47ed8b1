package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sosi2gpkg/internal/config"
	"sosi2gpkg/internal/gpkg"
	"sosi2gpkg/internal/sosi"
)

type sniffResult struct {
	Path     string `json:"path"`
	Koordsys *int   `json:"koordsys"`
	Known    bool   `json:"known"`
}

func newSniffCommand() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:         "sniff <file.sos>",
		Short:       "Show the KOORDSYS code declared in a SOSI file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			code, ok := sosi.ExtractKoordsys(path)
			result := sniffResult{Path: path, Known: sosi.IsKnown(code, ok)}
			if ok {
				result.Koordsys = &code
			}
			if jsonOut {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			switch {
			case !ok:
				fmt.Fprintf(out, "%s: KOORDSYS missing (unknown)\n", path)
			case result.Known:
				fmt.Fprintf(out, "%s: KOORDSYS %d (known)\n", path, code)
			default:
				fmt.Fprintf(out, "%s: KOORDSYS %d (unknown)\n", path, code)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON")
	return cmd
}

type layerInfo struct {
	Name         string `json:"name" yaml:"name"`
	DataType     string `json:"data_type" yaml:"data_type"`
	GeometryType string `json:"geometry_type,omitempty" yaml:"geometry_type,omitempty"`
	SRSID        int    `json:"srs_id,omitempty" yaml:"srs_id,omitempty"`
	Features     int64  `json:"features" yaml:"features"`
	Valid        bool   `json:"valid" yaml:"valid"`
	Source       string `json:"source" yaml:"source"`
}

func newLayersCommand() *cobra.Command {
	var jsonOut, yamlOut bool
	cmd := &cobra.Command{
		Use:         "layers <file.gpkg>",
		Short:       "List the layers of a GeoPackage",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			reader, err := gpkg.Open(cmd.Context(), path)
			if err != nil {
				return err
			}
			defer reader.Close()

			layers, err := reader.Layers(cmd.Context())
			if err != nil {
				return err
			}
			infos := make([]layerInfo, 0, len(layers))
			for _, layer := range layers {
				info := layerInfo{
					Name:         layer.Name,
					DataType:     layer.DataType,
					GeometryType: layer.GeometryType,
					SRSID:        layer.SRSID,
					Valid:        reader.Valid(cmd.Context(), layer),
					Source:       gpkg.SourceURI(path, layer.Name),
				}
				if info.Valid {
					if count, err := reader.FeatureCount(cmd.Context(), layer.Name); err == nil {
						info.Features = count
					}
				}
				infos = append(infos, info)
			}
			switch {
			case jsonOut:
				return writeJSON(cmd, infos)
			case yamlOut:
				return writeYAML(cmd, infos)
			}

			out := cmd.OutOrStdout()
			if len(infos) == 0 {
				fmt.Fprintln(out, "No layers found")
				return nil
			}
			rows := make([][]string, 0, len(infos))
			for i, info := range infos {
				srs := ""
				if info.SRSID != 0 {
					srs = "EPSG:" + strconv.Itoa(info.SRSID)
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					info.Name,
					info.DataType,
					info.GeometryType,
					srs,
					strconv.FormatInt(info.Features, 10),
					yesNo(info.Valid),
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				{title: "#", right: true},
				{title: "Layer"},
				{title: "Type"},
				{title: "Geometry"},
				{title: "SRS"},
				{title: "Features", right: true},
				{title: "Loadable"},
			}, rows))
			return nil
		},
	}
	addStructuredFlags(cmd, &jsonOut, &yamlOut, "the layers")
	return cmd
}
