package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Level(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New("debug", "").GetLevel())
	assert.Equal(t, logrus.InfoLevel, New("chatty", "").GetLevel())
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shopwizard.log")

	l := New("info", path)
	l.WithField("user_id", 5).Info("Shop list created")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Shop list created")
	assert.Contains(t, string(data), "user_id=5")
}
