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
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/notargets/gonetgen/mesh/readers"
)

// ConvertCmd represents the convert command
var ConvertCmd = &cobra.Command{
	Use:   "convert IN OUT",
	Short: "Read a mesh file and write it again, compressed or not by extension",
	Long: `
Reads IN and writes OUT. Either may be a .vol or a .vol.gz file,

gonetgen convert box.vol box.vol.gz`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		return Convert(s, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(ConvertCmd)
}

func Convert(s *Settings, in, out string) error {
	m, err := readers.ReadMeshFile(in, s.ReadOptions()...)
	if err != nil {
		return err
	}
	s.Log.WithField("memory", memUsage()).Debug("mesh read")
	if err = readers.WriteMeshFile(out, m, s.WriteOptions()...); err != nil {
		return err
	}
	s.Log.WithFields(logrus.Fields{
		"in":     in,
		"out":    out,
		"points": m.NumPoints(),
		"cells":  m.NumCells(),
	}).Info("converted")
	return nil
}
