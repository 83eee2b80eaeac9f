// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/leana56/ring-buffers-research/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	cmd := &cobra.Command{}
	config.BindFlags(cmd, v)

	cfg, err := config.Load(v)
	require.NoError(t, err)

	defaults := config.Defaults()
	require.Equal(t, defaults.SampleSize, cfg.SampleSize)
	require.Equal(t, defaults.PayloadByteType, cfg.PayloadByteType)
	require.True(t, cfg.RunSPSCExperiments)
	require.Equal(t, []int{1, 2, 3, 4, 5}, cfg.ProducerPinCPUIDs)
}

func TestValidateRejectsOversizedThreadCounts(t *testing.T) {
	cfg := config.Defaults()
	cfg.ConsumerPinCPUIDs = []int{6, 7}
	cfg.SPMCNumConsumers = 3

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "spmc-num-consumers")
}

func TestValidateAcceptsMatchingThreadCounts(t *testing.T) {
	cfg := config.Defaults()
	require.NoError(t, cfg.Validate())
}

func TestPayloadByteTypeFlag(t *testing.T) {
	v := viper.New()
	cmd := &cobra.Command{}
	config.BindFlags(cmd, v)
	require.NoError(t, cmd.Flags().Set("payload-byte-type", "blank"))

	cfg, err := config.Load(v)
	require.NoError(t, err)
	require.Equal(t, 0, int(cfg.PayloadByteType)) // ring.FillBlank
}
