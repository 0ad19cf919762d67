package app_test

import (
	"testing"

	"github.com/pakt-dev/pakt/internal/app"
	"github.com/pakt-dev/pakt/internal/core/domain"
	"github.com/pakt-dev/pakt/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestApp_Init(t *testing.T) {
	t.Run("creates a fresh manifest", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		manifests := mocks.NewMockManifestStore(ctrl)
		log := mocks.NewMockLogger(ctrl)
		log.EXPECT().Info(gomock.Any()).AnyTimes()

		manifests.EXPECT().Exists().Return(false)
		manifests.EXPECT().Save(gomock.Cond(func(m *domain.Manifest) bool {
			return m.Project == "demo" && m.Len() == 0
		})).Return(nil)

		a := app.New(manifests, nil, nil, nil, log, domain.Environment{})
		require.NoError(t, a.Init("demo"))
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		manifests := mocks.NewMockManifestStore(ctrl)
		log := mocks.NewMockLogger(ctrl)

		manifests.EXPECT().Exists().Return(true)

		a := app.New(manifests, nil, nil, nil, log, domain.Environment{})
		err := a.Init("demo")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrManifestExists)
	})
}
