package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vk/metareg/internal/app"
	"github.com/vk/metareg/internal/registry"
)

func printReports(w io.Writer, reports []app.FileReport) error {
	for _, r := range reports {
		var err error
		switch {
		case r.Err == nil:
			_, err = fmt.Fprintf(w, "ok    %s (%d roots, %d nodes)\n", r.Path, r.Roots, r.Nodes)
		case r.DumpPath != "":
			_, err = fmt.Fprintf(w, "FAIL  %s: %v (tree written to %s)\n", r.Path, r.Err, r.DumpPath)
		default:
			_, err = fmt.Fprintf(w, "FAIL  %s: %v\n", r.Path, r.Err)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func checkSummary(failed, total int) string {
	return fmt.Sprintf("%d of %d files failed the check", failed, total)
}

func printMappings(w io.Writer, mappings []registry.Mapping) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tTAG\tNAME\tLANGUAGE\tID\tINSTANTIATED\tCODEC")
	for _, m := range mappings {
		instantiated, codec := "-", "-"
		switch m.Kind {
		case registry.MappingClassifier:
			instantiated = yesNo(m.Instantiated)
		case registry.MappingPrimitive:
			codec = yesNo(m.HasCodec)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", m.Kind, m.Tag, m.Name, m.Language, m.ID, instantiated, codec)
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// mappingDTO is the JSON shape of a mapping.
type mappingDTO struct {
	Kind         string `json:"kind"`
	Tag          string `json:"tag"`
	Name         string `json:"name"`
	Language     string `json:"language"`
	ID           string `json:"id"`
	Instantiated bool   `json:"instantiated,omitempty"`
	HasCodec     bool   `json:"has_codec,omitempty"`
}

func printMappingsJSON(w io.Writer, mappings []registry.Mapping) error {
	dtos := make([]mappingDTO, 0, len(mappings))
	for _, m := range mappings {
		dtos = append(dtos, mappingDTO{
			Kind:         string(m.Kind),
			Tag:          string(m.Tag),
			Name:         m.Name,
			Language:     m.Language,
			ID:           m.ID,
			Instantiated: m.Instantiated,
			HasCodec:     m.HasCodec,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dtos)
}
