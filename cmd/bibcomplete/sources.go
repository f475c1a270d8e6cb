// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bibcomplete/internal/lookup"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the sources that complete would query",
	RunE: func(cmd *cobra.Command, args []string) error {
		var sources []lookup.RESTSource
		var err error

		if path := viper.GetString("sources_file"); path != "" {
			sources, err = lookup.LoadSourcesFile(path)
			if err != nil {
				return err
			}
		} else {
			sources = lookup.DefaultSources()
		}

		for _, s := range sources {
			fields := make([]string, 0, len(s.Fields))
			for f := range s.Fields {
				fields = append(fields, f)
			}
			sort.Strings(fields)
			fmt.Printf("%s\n  url:    %s\n  fields: %s\n", s.Name, s.URL, strings.Join(fields, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
