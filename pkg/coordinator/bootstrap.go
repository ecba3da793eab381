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

package coordinator

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/tabgenie/pkg/store"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏗️ Bootstrap prepares a project: a destination mapping for every enabled
// file type, a mapping row for every center, and the center containers.
// Existing mappings are kept.
func (c *Coordinator) Bootstrap(ctx context.Context, centers []string) error {
	logger := zerolog.Ctx(ctx)

	for _, tag := range c.reg.Tags() {
		_, err := c.client.Tables.DatabaseID(ctx, tag)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if err := c.client.Tables.PutDatabase(ctx, tag, TablePrefix+tag); err != nil {
			return err
		}
		logger.Info().Str("file_type", tag).Msg("destination mapped")
	}

	existing, err := c.client.Tables.CenterMappings(ctx)
	if err != nil {
		return errors.Errorf("loading center mapping: %w", err)
	}
	known := make(map[string]store.CenterMapping, len(existing))
	for _, m := range existing {
		known[m.Center] = m
	}

	var containers []string
	for _, center := range centers {
		m, ok := known[center]
		if !ok {
			m = store.CenterMapping{
				Center:    center,
				InputID:   center + "/input",
				StagingID: center + "/staging",
				Release:   true,
			}
			if err := c.client.Tables.PutCenter(ctx, m); err != nil {
				return err
			}
			known[center] = m
			logger.Info().Str("center", center).Msg("center mapped")
		}
		containers = append(containers, m.InputID)
		if m.StagingID != "" {
			containers = append(containers, m.StagingID)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range containers {
		g.Go(func() error {
			if err := c.client.Containers.Ensure(gctx, id); err != nil {
				return errors.Errorf("creating container %s: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}
