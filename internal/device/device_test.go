package device

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"Mansoor88-6/launcher-kit/internal/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticSource struct {
	id  string
	err error
}

func (s staticSource) DeviceID(context.Context) (string, error) { return s.id, s.err }

func TestGetOrGenerateDeviceID(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "d.db"), zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	dm := NewDeviceManager(db.DB, zap.NewNop())
	ctx := context.Background()

	id, err := dm.GetOrGenerateDeviceID(ctx, " configured ", staticSource{id: "serial"})
	require.NoError(t, err)
	assert.Equal(t, "configured", id)

	id, err = dm.GetOrGenerateDeviceID(ctx, "", staticSource{id: "serial"})
	require.NoError(t, err)
	assert.Equal(t, "serial", id)

	generated, err := dm.GetOrGenerateDeviceID(ctx, "", staticSource{err: errors.New("offline")})
	require.NoError(t, err)
	_, err = uuid.Parse(generated)
	assert.NoError(t, err)

	// later runs reuse the stored id
	again, err := dm.GetOrGenerateDeviceID(ctx, "", nil)
	require.NoError(t, err)
	assert.Equal(t, generated, again)
}

func TestGetOrGenerateDeviceID_NoDatabase(t *testing.T) {
	id, err := NewDeviceManager(nil, zap.NewNop()).GetOrGenerateDeviceID(context.Background(), "", nil)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)
}
