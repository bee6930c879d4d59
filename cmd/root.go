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
	"os"
	"runtime"
	"strings"

	"github.com/klauspost/compress/gzip"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gonetgen/InputParameters"
	"github.com/notargets/gonetgen/mesh/netgen"
)

const DefaultTolerance = 1e-13

var (
	cfgFile  string
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gonetgen",
	Short: "Read, write and inspect Netgen .vol meshes",
	Long: `
Reads and writes Netgen volume meshes (.vol, or gzip compressed .vol.gz),

gonetgen convert box.vol box.vol.gz
gonetgen info box.vol.gz
gonetgen roundtrip box.vol`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return startProfile(viper.GetString("profile"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	stopProfile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gonetgen.yaml)")
	rootCmd.PersistentFlags().StringP("params", "p", "", "YAML parameters file (Title, Comment, CompressionLevel, LogLevel, Tolerance)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: panic, fatal, error, warn, info, debug or trace")
	rootCmd.PersistentFlags().String("profile", "", "write a cpu or mem profile to the current directory")
	rootCmd.PersistentFlags().String("comment", netgen.DefaultComment, "header comment of written files")
	rootCmd.PersistentFlags().Int("compression-level", gzip.DefaultCompression, "gzip level for .gz output, -2 (huffman only) to 9")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".gonetgen" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".gonetgen")
	}

	viper.SetEnvPrefix("gonetgen")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logrus.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}
}

func startProfile(kind string) error {
	switch kind {
	case "":
		return nil
	case "cpu":
		profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
	case "mem":
		profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet)
	default:
		return fmt.Errorf("unknown profile %q, want cpu or mem", kind)
	}
	return nil
}

func stopProfile() {
	if profiler != nil {
		profiler.Stop()
		profiler = nil
	}
}

func memUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

// Settings are the resolved values of flags, environment, config file and
// parameters file. A flag given on the command line wins over the
// parameters file, which wins over the config file.
type Settings struct {
	Log       *logrus.Logger
	Params    *InputParameters.MeshParameters
	Tolerance float64
	write     []netgen.Option
}

func loadSettings(cmd *cobra.Command) (s *Settings, err error) {
	s = &Settings{
		Params:    &InputParameters.MeshParameters{},
		Tolerance: DefaultTolerance,
	}
	if file := viper.GetString("params"); file != "" {
		var data []byte
		if data, err = os.ReadFile(file); err != nil {
			return nil, err
		}
		if err = s.Params.Parse(data); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
		if err = s.Params.Validate(); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
	}

	levelName := viper.GetString("log-level")
	if s.Params.LogLevel != "" && !cmd.Flags().Changed("log-level") {
		levelName = s.Params.LogLevel
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	s.Log = logrus.New()
	s.Log.SetOutput(cmd.ErrOrStderr())
	s.Log.SetLevel(level)
	if viper.GetString("params") != "" && s.Log.IsLevelEnabled(logrus.DebugLevel) {
		var buf bytes.Buffer
		s.Params.Print(&buf)
		s.Log.WithField("params", viper.GetString("params")).Debug("parameters file\n" + buf.String())
	}

	s.write = []netgen.Option{
		netgen.WithLogger(s.Log),
		netgen.WithComment(viper.GetString("comment")),
		netgen.WithCompressionLevel(viper.GetInt("compression-level")),
	}
	s.write = append(s.write, s.Params.WriteOptions()...)
	// later options win, so explicit flags go last
	if cmd.Flags().Changed("comment") {
		s.write = append(s.write, netgen.WithComment(viper.GetString("comment")))
	}
	if cmd.Flags().Changed("compression-level") {
		s.write = append(s.write, netgen.WithCompressionLevel(viper.GetInt("compression-level")))
	}
	if s.Params.Tolerance > 0 {
		s.Tolerance = s.Params.Tolerance
	}
	return s, nil
}

// ReadOptions are the options for reading meshes
func (s *Settings) ReadOptions() []netgen.Option {
	return []netgen.Option{netgen.WithLogger(s.Log)}
}

// WriteOptions are the options for writing meshes
func (s *Settings) WriteOptions() []netgen.Option {
	return s.write
}
