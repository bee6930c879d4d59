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
	"bytes"
	"fmt"
	"io"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/notargets/gonetgen/mesh"
	"github.com/notargets/gonetgen/mesh/netgen"
	"github.com/notargets/gonetgen/mesh/readers"
)

// RoundTripCmd represents the roundtrip command
var RoundTripCmd = &cobra.Command{
	Use:   "roundtrip IN",
	Short: "Check that a mesh file survives being written and read again",
	Long: `
Reads IN, writes it to memory, reads that back and compares geometry,
connectivity, cell data, named groups and the info bag,

gonetgen roundtrip box.vol`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		if tol, _ := cmd.Flags().GetFloat64("tolerance"); cmd.Flags().Changed("tolerance") {
			s.Tolerance = tol
		}
		return RoundTrip(s, args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(RoundTripCmd)
	RoundTripCmd.Flags().Float64P("tolerance", "t", DefaultTolerance, "allowed coordinate difference")
}

func RoundTrip(s *Settings, in string, w io.Writer) error {
	m, err := readers.ReadMeshFile(in, s.ReadOptions()...)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err = netgen.Write(&buf, m, s.WriteOptions()...); err != nil {
		return err
	}
	size := buf.Len()
	back, err := netgen.Read(&buf, s.ReadOptions()...)
	if err != nil {
		return fmt.Errorf("re-reading %s: %w", in, err)
	}
	if err = compareMeshes(m, back, s.Tolerance); err != nil {
		return fmt.Errorf("%s does not survive a round trip: %w", in, err)
	}
	fmt.Fprintf(w, "%s: round trip ok, %d points, %d cells, %d bytes\n",
		in, m.NumPoints(), m.NumCells(), size)
	return nil
}

func compareMeshes(a, b *mesh.Mesh, tol float64) error {
	if err := mesh.ApproxEqual(a, b, tol); err != nil {
		return err
	}
	for _, c := range []struct {
		name string
		a, b interface{}
	}{
		{"cell data", a.CellData, b.CellData},
		{"cell float data", a.CellFloatData, b.CellFloatData},
		{"field data", a.FieldData, b.FieldData},
		{"info", a.Info, b.Info},
	} {
		if diff := cmp.Diff(c.a, c.b); diff != "" {
			return fmt.Errorf("%s differs (-read +reread):\n%s", c.name, diff)
		}
	}
	return nil
}
