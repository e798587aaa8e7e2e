// Copyright 2026 sorrel Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSetLogger(t *testing.T) {
	temp := t.TempDir()
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flagSet)
	assert.NoError(t, flagSet.Set("log-path", filepath.Join(temp, "sorrel.log")))
	SetLogger(flagSet, true)
	Logger().Info("hello")
	// stdout refuses to sync on some platforms, only the file sink matters
	_ = Logger().Sync()
	content, err := os.ReadFile(filepath.Join(temp, "sorrel.log"))
	assert.NoError(t, err)
	assert.Contains(t, string(content), "hello")
}

func TestLogger(t *testing.T) {
	assert.NotNil(t, Logger())
	Logger().Debug("debug", zap.String("a", "1"))
	Logger().Info("info", zap.Int("b", 2))
}
