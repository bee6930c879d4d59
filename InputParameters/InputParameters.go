package InputParameters

import (
	"fmt"
	"io"

	"github.com/ghodss/yaml"

	"github.com/notargets/gonetgen/mesh/netgen"
)

// Parameters obtained from the YAML input file. Unset fields leave the
// command line and config file values alone.
type MeshParameters struct {
	Title            string  `yaml:"Title"`
	Comment          string  `yaml:"Comment"`
	CompressionLevel *int    `yaml:"CompressionLevel"`
	LogLevel         string  `yaml:"LogLevel"`
	Tolerance        float64 `yaml:"Tolerance"`
}

func (ip *MeshParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *MeshParameters) Validate() error {
	if ip.CompressionLevel != nil {
		if l := *ip.CompressionLevel; l < -2 || l > 9 {
			return fmt.Errorf("CompressionLevel %d outside [-2,9]", l)
		}
	}
	if ip.Tolerance < 0 {
		return fmt.Errorf("Tolerance must not be negative, got %g", ip.Tolerance)
	}
	return nil
}

// WriteOptions turns the writer settings present in the file into options
func (ip *MeshParameters) WriteOptions() (opts []netgen.Option) {
	if ip.Comment != "" {
		opts = append(opts, netgen.WithComment(ip.Comment))
	}
	if ip.CompressionLevel != nil {
		opts = append(opts, netgen.WithCompressionLevel(*ip.CompressionLevel))
	}
	return
}

func (ip *MeshParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "\"%s\"\t\t= Comment\n", ip.Comment)
	if ip.CompressionLevel != nil {
		fmt.Fprintf(w, "[%d]\t\t\t\t= Compression Level\n", *ip.CompressionLevel)
	}
	fmt.Fprintf(w, "[%s]\t\t\t= Log Level\n", ip.LogLevel)
	fmt.Fprintf(w, "%8.2e\t\t= Tolerance\n", ip.Tolerance)
}
