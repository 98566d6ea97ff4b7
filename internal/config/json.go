package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and the
// string-friendly [Duration] type, so durations can be written as "30s" or
// "5m" in the config file.
type StructuredJSONConfig struct {
	Security struct {
		EncryptionEnabled bool   `json:"encryption_enabled"`
		KeyFilePath       string `json:"key_file"`
	} `json:"security,omitempty"`

	Sync struct {
		Enabled        bool     `json:"enabled"`
		Endpoint       string   `json:"endpoint"`
		APIKey         string   `json:"api_key"`
		Interval       Duration `json:"interval"`
		RequestTimeout Duration `json:"request_timeout"`
		Compression    bool     `json:"compression"`
	} `json:"sync,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Auth struct {
		APIKey        string   `json:"api_key"`
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
	} `json:"auth,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Security: Security{
			EncryptionEnabled: jsonCfg.Security.EncryptionEnabled,
			KeyFilePath:       jsonCfg.Security.KeyFilePath,
		},
		Sync: Sync{
			Enabled:        jsonCfg.Sync.Enabled,
			Endpoint:       jsonCfg.Sync.Endpoint,
			APIKey:         jsonCfg.Sync.APIKey,
			Interval:       time.Duration(jsonCfg.Sync.Interval),
			RequestTimeout: time.Duration(jsonCfg.Sync.RequestTimeout),
			Compression:    jsonCfg.Sync.Compression,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Auth: Auth{
			APIKey:        jsonCfg.Auth.APIKey,
			TokenSignKey:  jsonCfg.Auth.TokenSignKey,
			TokenIssuer:   jsonCfg.Auth.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.Auth.TokenDuration),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
