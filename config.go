package main

import (
	"encoding/json"
	"net"
	"path/filepath"
	"strings"

	"github.com/9seconds/geolocator/geolib"
	"github.com/BurntSushi/toml"
	"github.com/hjson/hjson-go/v4"
	"github.com/juju/errors"
	"github.com/spf13/afero"
)

const DefaultListen = "127.0.0.1:8000"

type configBasicAuth struct {
	User     string `json:"user" toml:"user"`
	Password string `json:"password" toml:"password"`
}

type config struct {
	Listen    string                 `json:"listen" toml:"listen"`
	BasicAuth configBasicAuth        `json:"basic_auth" toml:"basic_auth"`
	Driver    string                 `json:"driver" toml:"driver"`
	Options   map[string]interface{} `json:"options" toml:"options"`
}

func (c config) GetListen() string {
	if c.Listen != "" {
		return c.Listen
	}

	return DefaultListen
}

func (c config) HasBasicAuth() bool {
	return c.BasicAuth.User != "" || c.BasicAuth.Password != ""
}

func (c config) GetBasicAuthUser() string {
	return c.BasicAuth.User
}

func (c config) GetBasicAuthPassword() string {
	return c.BasicAuth.Password
}

func (c config) GetGeolibConfig() geolib.Config {
	return geolib.Config{
		Driver:  c.Driver,
		Options: geolib.Options(c.Options),
	}
}

func parseConfig(fs afero.Fs, path string) (*config, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Annotate(err, "Cannot read config file")
	}

	conf := &config{}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = parseTOML(content, conf)
	} else {
		err = parseHJSON(content, conf)
	}

	if err != nil {
		return nil, errors.Annotate(err, "Cannot parse config file")
	}

	if err := validateConfig(conf); err != nil {
		return nil, errors.Annotate(err, "Invalid value")
	}

	return conf, nil
}

func parseTOML(content []byte, conf *config) error {
	_, err := toml.Decode(string(content), conf)

	return err
}

func parseHJSON(content []byte, conf *config) error {
	rawMap := map[string]interface{}{}

	if err := hjson.Unmarshal(content, &rawMap); err != nil {
		return errors.Annotate(err, "Cannot parse hjson")
	}

	rawBytes, err := json.Marshal(rawMap)
	if err != nil {
		return errors.Annotate(err, "Cannot convert hjson")
	}

	return json.Unmarshal(rawBytes, conf)
}

func validateConfig(conf *config) error {
	if _, _, err := net.SplitHostPort(conf.GetListen()); err != nil {
		return errors.Annotatef(err, "Incorrect host:port for listen %s", conf.GetListen())
	}

	if conf.BasicAuth.User == "" && conf.BasicAuth.Password != "" {
		return errors.Errorf("Basic auth password is set without user")
	}

	return nil
}
