// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

// hclConfig is the HCL schema. Blocks are optional, so they decode into
// pointers and are copied onto the model afterwards.
type hclConfig struct {
	ProjectID string   `hcl:"project_id"`
	Formats   []string `hcl:"formats,optional"`
	OutputDir string   `hcl:"output_dir,optional"`
	LocalRoot string   `hcl:"local_root,optional"`

	Store *struct {
		Driver      string `hcl:"driver,optional"`
		DSN         string `hcl:"dsn,optional"`
		PingTimeout string `hcl:"ping_timeout,optional"`
	} `hcl:"store,block"`

	ObjectStore *struct {
		Endpoint  string `hcl:"endpoint"`
		AccessKey string `hcl:"access_key,optional"`
		SecretKey string `hcl:"secret_key,optional"`
		Region    string `hcl:"region,optional"`
		UseSSL    bool   `hcl:"use_ssl,optional"`
		Bucket    string `hcl:"bucket"`
	} `hcl:"object_store,block"`

	Upload *struct {
		FilterByCenter bool   `hcl:"filter_by_center,optional"`
		DeleteAbsent   bool   `hcl:"delete_absent,optional"`
		Attempts       uint   `hcl:"attempts,optional"`
		Delay          string `hcl:"delay,optional"`
	} `hcl:"upload,block"`
}

// loadHCL loads a configuration from HCL data
func loadHCL(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		ProjectID: hclCfg.ProjectID,
		Formats:   hclCfg.Formats,
		OutputDir: hclCfg.OutputDir,
		LocalRoot: hclCfg.LocalRoot,
	}

	if s := hclCfg.Store; s != nil {
		cfg.Store.Driver = s.Driver
		cfg.Store.DSN = s.DSN
		if s.PingTimeout != "" {
			if err := cfg.Store.PingTimeout.parse(s.PingTimeout); err != nil {
				return nil, errors.Errorf("store.ping_timeout: %w", err)
			}
		}
	}

	if o := hclCfg.ObjectStore; o != nil {
		cfg.ObjectStore = ObjectStoreConfig{
			Endpoint:  o.Endpoint,
			AccessKey: o.AccessKey,
			SecretKey: o.SecretKey,
			Region:    o.Region,
			UseSSL:    o.UseSSL,
			Bucket:    o.Bucket,
		}
	}

	if u := hclCfg.Upload; u != nil {
		cfg.Upload.FilterByCenter = u.FilterByCenter
		cfg.Upload.DeleteAbsent = u.DeleteAbsent
		cfg.Upload.Attempts = u.Attempts
		if u.Delay != "" {
			if err := cfg.Upload.Delay.parse(u.Delay); err != nil {
				return nil, errors.Errorf("upload.delay: %w", err)
			}
		}
	}

	return cfg, nil
}
