package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

var (
	_ pflag.Value = (*formatValue)(nil)
	_ pflag.Value = (*pathValue)(nil)
	_ pflag.Value = (*dataModeValue)(nil)
	_ pflag.Value = (*dialectValue)(nil)
)

// formatValue implements pflag.Value to provide a custom type name in help text
// and validation for output formats.
type formatValue string

func (f *formatValue) String() string {
	return string(*f)
}

func (f *formatValue) Set(v string) error {
	if v != "json" && v != "text" {
		return fmt.Errorf("must be 'text' or 'json'")
	}
	*f = formatValue(v)
	return nil
}

func (f *formatValue) Type() string {
	return "<format>"
}

// pathValue implements pflag.Value to provide a custom type name in help text.
type pathValue string

func (p *pathValue) String() string {
	return string(*p)
}

func (p *pathValue) Set(v string) error {
	*p = pathValue(v)
	return nil
}

func (p *pathValue) Type() string {
	return "<path>"
}

// How data arguments are interpreted.
const (
	DataModeFile = "file"
	DataModeURI  = "uri"
	DataModeJSON = "json"
)

var dataModes = []string{DataModeFile, DataModeURI, DataModeJSON}

// dataModeValue implements pflag.Value for --data-mode.
type dataModeValue string

func (d *dataModeValue) String() string {
	return string(*d)
}

func (d *dataModeValue) Set(v string) error {
	if !slices.Contains(dataModes, v) {
		return fmt.Errorf("must be one of '%s'", strings.Join(dataModes, "', '"))
	}
	*d = dataModeValue(v)
	return nil
}

func (d *dataModeValue) Type() string {
	return "<mode>"
}

// dialectValue implements pflag.Value for --version. Names are checked when
// the validator resolves them.
type dialectValue string

func (d *dialectValue) String() string {
	return string(*d)
}

func (d *dialectValue) Set(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("must name a dialect")
	}
	*d = dialectValue(v)
	return nil
}

func (d *dialectValue) Type() string {
	return "<dialect>"
}
