/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

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
package cmd

import (
	"fmt"
	"io"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"

	"github.com/notargets/gonetgen/mesh/readers"
)

// InfoCmd represents the info command
var InfoCmd = &cobra.Command{
	Use:   "info IN",
	Short: "Print a YAML summary of a mesh file",
	Long: `
Prints point and cell counts, cell blocks, named groups, the bounding box and
the keys of the cell data and info bag,

gonetgen info box.vol.gz`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		return Info(s, args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(InfoCmd)
}

func Info(s *Settings, in string, w io.Writer) error {
	m, err := readers.ReadMeshFile(in, s.ReadOptions()...)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(m.Stats())
	if err != nil {
		return fmt.Errorf("formatting summary of %s: %w", in, err)
	}
	_, err = w.Write(data)
	return err
}
