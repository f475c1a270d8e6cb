// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bibcomplete/internal/bib"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields [entry-type]",
	Short: "List the known fields, or the field sets of an entry type",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, f := range bib.FieldNames() {
				fmt.Println(f)
			}
			return nil
		}

		entryType := strings.ToLower(args[0])
		if _, ok := bib.EntryTypes[entryType]; !ok {
			return fmt.Errorf("unknown entry type %q", entryType)
		}
		required := bib.FieldsForType(entryType, bib.FilterRequired)
		optional := bib.FieldsForType(entryType, bib.FilterOptional)
		all := bib.FieldsForType(entryType, bib.FilterAll)

		fmt.Printf("required:     %s\n", joinSet(required))
		fmt.Printf("optional:     %s\n", joinSet(subtract(optional, required)))
		fmt.Printf("non-standard: %s\n", joinSet(subtract(all, optional)))
		return nil
	},
}

func joinSet(set map[string]bool) string {
	names := make([]string, 0, len(set))
	for f := range set {
		names = append(names, f)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func subtract(set, minus map[string]bool) map[string]bool {
	out := make(map[string]bool, len(set))
	for f := range set {
		if !minus[f] {
			out[f] = true
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}
