package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	// StyleConfig holds read-only numeric parameters threaded through the
	// document translator. Sizes are in points.
	StyleConfig struct {
		FontSize         float64 `yaml:"font_size" validate:"gt=0"`
		CodeFontDelta    float64 `yaml:"code_font_delta" validate:"gte=0"`
		MinCodeFontSize  float64 `yaml:"min_code_font_size" validate:"gt=0"`
		LineSpacing      float64 `yaml:"line_spacing" validate:"gt=0"`
		ParagraphSpacing float64 `yaml:"paragraph_spacing" validate:"gte=0"`
	}

	FrameConfig struct {
		Width  int `yaml:"width" validate:"min=1"`
		Height int `yaml:"height" validate:"min=1"`
	}

	RemoteImagesConfig struct {
		Download      bool          `yaml:"download"`
		Policy        RemotePolicy  `yaml:"policy" validate:"gte=0"`
		Timeout       time.Duration `yaml:"timeout" validate:"gt=0"`
		Concurrency   int           `yaml:"concurrency" validate:"min=1,max=64"`
		CacheSize     int           `yaml:"cache_size" validate:"min=1"`
		MaxBytes      int64         `yaml:"max_bytes" validate:"min=1024"`
		UserAgent     string        `yaml:"user_agent"`
		Authorization SecretString  `yaml:"authorization,omitempty"`
	}

	ImagesConfig struct {
		Frame        FrameConfig        `yaml:"frame"`
		KeepAspect   bool               `yaml:"keep_aspect"`
		RasterizeSVG bool               `yaml:"rasterize_svg"`
		MaxDimension int                `yaml:"max_dimension" validate:"gte=0"`
		Remote       RemoteImagesConfig `yaml:"remote"`
	}

	MarkdownConfig struct {
		Extensions  []string `yaml:"extensions" validate:"dive,required"`
		HardWraps   bool     `yaml:"hard_wraps"`
		UnsafeHTML  bool     `yaml:"unsafe_html"`
		FrontMatter bool     `yaml:"front_matter"`
	}

	OutputConfig struct {
		Format                OutputFmt `yaml:"format" validate:"gte=0"`
		OutputNameTemplate    string    `yaml:"output_name_template"`
		FileNameTransliterate bool      `yaml:"file_name_transliterate"`
		KeepHTML              bool      `yaml:"keep_html"`
		BaseURL               string    `yaml:"base_url" validate:"omitempty,url"`
	}

	DocumentConfig struct {
		Style    StyleConfig    `yaml:"style"`
		Images   ImagesConfig   `yaml:"images"`
		Markdown MarkdownConfig `yaml:"markdown"`
		Output   OutputConfig   `yaml:"output"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
