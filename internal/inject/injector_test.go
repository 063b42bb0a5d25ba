package inject

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/assetinject/internal/compilation"
	ferrors "git.home.luguber.info/inful/assetinject/internal/foundation/errors"
	"git.home.luguber.info/inful/assetinject/internal/htmlplugin"
	"git.home.luguber.info/inful/assetinject/internal/metrics"
)

type testRecorder struct {
	mu         sync.Mutex
	assets     map[string]int
	sourcemaps map[metrics.ResultLabel]int
	outcomes   map[metrics.ResultLabel]int
	durations  int
	bytes      int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		assets:     map[string]int{},
		sourcemaps: map[metrics.ResultLabel]int{},
		outcomes:   map[metrics.ResultLabel]int{},
	}
}

func (r *testRecorder) IncAssetResult(assetType string, result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets[assetType+"/"+string(result)]++
}

func (r *testRecorder) ObserveAssetBytes(_ string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bytes += n
}

func (r *testRecorder) IncSourcemap(result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sourcemaps[result]++
}

func (r *testRecorder) ObserveInjectDuration(time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations++
}

func (r *testRecorder) IncRunOutcome(result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[result]++
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T, files map[string]string) (billy.Filesystem, *compilation.Compilation, *htmlplugin.PluginData) {
	t.Helper()
	fs := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
	}
	c := compilation.New(".", compilation.Options{})
	data := htmlplugin.NewPluginData(htmlplugin.NewFSFileAdder(fs, quietLogger()))
	return fs, c, data
}

func run(t *testing.T, assets []Asset, c *compilation.Compilation, data *htmlplugin.PluginData) error {
	t.Helper()
	return New(WithLogger(quietLogger())).AddAll(context.Background(), assets, c, data)
}

func TestAddAllRegistersAssetAndSourcemap(t *testing.T) {
	_, c, data := newFixture(t, map[string]string{
		"app.js":     "console.log(1)",
		"app.js.map": "{}",
	})

	require.NoError(t, run(t, []Asset{{Filepath: "app.js"}}, c, data))

	assert.Equal(t, []string{"app.js"}, data.Assets.JS)
	assert.Empty(t, data.Assets.CSS)
	assert.Equal(t, []string{"app.js", "app.js.map"}, c.AssetNames())
	assert.Empty(t, c.Errors)
}

func TestAddAllPrependsInReverseOrder(t *testing.T) {
	_, c, data := newFixture(t, map[string]string{
		"a.js": "a", "b.js": "b", "theme.css": "body{}",
	})
	data.Assets.JS = []string{"main.js"}

	assets := []Asset{
		{Filepath: "a.js", IncludeSourcemap: Bool(false)},
		{Filepath: "b.js", IncludeSourcemap: Bool(false)},
		{Filepath: "theme.css", TypeOfAsset: htmlplugin.AssetTypeCSS, IncludeSourcemap: Bool(false)},
	}
	require.NoError(t, run(t, assets, c, data))

	assert.Equal(t, []string{"b.js", "a.js", "main.js"}, data.Assets.JS)
	assert.Equal(t, []string{"theme.css"}, data.Assets.CSS)
}

func TestAddAllPublicPathResolution(t *testing.T) {
	tests := []struct {
		name        string
		compilation compilation.Options
		assetPath   *string
		want        string
	}{
		{name: "derived", compilation: compilation.Options{}, want: "app.js"},
		{name: "compilation prefix", compilation: compilation.WithPublicPath("/static"), want: "/static/app.js"},
		{name: "asset overrides compilation", compilation: compilation.WithPublicPath("/static/"), assetPath: String("https://cdn.example.com"), want: "https://cdn.example.com/app.js"},
		{name: "asset explicit empty", compilation: compilation.WithPublicPath("/static/"), assetPath: String(""), want: "app.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memfs.New()
			require.NoError(t, util.WriteFile(fs, "app.js", []byte("x"), 0o644))
			c := compilation.New(".", tt.compilation)
			data := htmlplugin.NewPluginData(htmlplugin.NewFSFileAdder(fs, quietLogger()))

			asset := Asset{Filepath: "app.js", PublicPath: tt.assetPath, IncludeSourcemap: Bool(false)}
			require.NoError(t, run(t, []Asset{asset}, c, data))
			assert.Equal(t, []string{tt.want}, data.Assets.JS)
		})
	}
}

func TestAddAllDerivedPrefixForNestedName(t *testing.T) {
	c := compilation.New(".", compilation.Options{})
	adder := htmlplugin.FileAdderFunc(func(_ context.Context, _ string, c *compilation.Compilation) (string, error) {
		c.SetAsset("js/vendor/app.js", compilation.RawSource("app"))
		return "js/vendor/app.js", nil
	})
	data := htmlplugin.NewPluginData(adder)

	asset := Asset{Filepath: "app.js", IncludeSourcemap: Bool(false)}
	require.NoError(t, run(t, []Asset{asset}, c, data))

	assert.Equal(t, []string{"../../js/vendor/app.js"}, data.Assets.JS)
}

func TestAddAllHashSuffix(t *testing.T) {
	_, c, data := newFixture(t, map[string]string{"lib/app.js": "abc"})
	c.Options = compilation.WithPublicPath("/pub")

	asset := Asset{Filepath: "lib/app.js", Hash: true, IncludeSourcemap: Bool(false)}
	require.NoError(t, run(t, []Asset{asset}, c, data))

	assert.Equal(t, []string{"/pub/app.js?900150983cd24fb0d696"}, data.Assets.JS)
}

func TestAddFileToAssetsLogsHash(t *testing.T) {
	_, c, data := newFixture(t, map[string]string{"app.js": "abc"})
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	asset := Asset{Filepath: "app.js", Hash: true, IncludeSourcemap: Bool(false)}
	require.NoError(t, New(WithLogger(logger)).AddFileToAssets(context.Background(), c, data, asset))

	assert.Contains(t, buf.String(), "hash=?900150983cd24fb0d696")
	assert.Contains(t, buf.String(), "public_path=app.js?900150983cd24fb0d696")
}

func TestAddAllRelocatesOutput(t *testing.T) {
	_, c, data := newFixture(t, map[string]string{
		"react.js":     "react",
		"react.js.map": "{}",
	})

	asset := Asset{Filepath: "react.js", OutputPath: "vendor/", Hash: true}
	require.NoError(t, run(t, []Asset{asset}, c, data))

	assert.Equal(t, []string{"vendor/react.js", "vendor/react.js.map"}, c.AssetNames())
	// The public path keeps the registered name.
	require.Len(t, data.Assets.JS, 1)
	assert.Regexp(t, `^react\.js\?[0-9a-f]{20}$`, data.Assets.JS[0])
}

func TestAddAllMissingFilepath(t *testing.T) {
	_, c, data := newFixture(t, map[string]string{"a.js": "a"})

	err := run(t, []Asset{{Filepath: "a.js", IncludeSourcemap: Bool(false)}, {}, {Filepath: "a.js"}}, c, data)

	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	require.Len(t, c.Errors, 1)
	assert.ErrorIs(t, c.Errors[0], ferrors.ValidationError("No filepath defined").Build())
	assert.Equal(t, []string{"a.js"}, data.Assets.JS)
}

func TestAddAllAbortsOnHostError(t *testing.T) {
	hostErr := errors.New("disk on fire")
	var calls []string
	adder := htmlplugin.FileAdderFunc(func(_ context.Context, filename string, c *compilation.Compilation) (string, error) {
		calls = append(calls, filename)
		if filename == "b.js" {
			return "", hostErr
		}
		c.SetAsset(filename, compilation.RawSource(filename))
		return filename, nil
	})
	c := compilation.New(".", compilation.Options{})
	data := htmlplugin.NewPluginData(adder)

	assets := []Asset{
		{Filepath: "a.js", IncludeSourcemap: Bool(false)},
		{Filepath: "b.js"},
		{Filepath: "c.js"},
	}
	err := run(t, assets, c, data)

	require.ErrorIs(t, err, hostErr)
	assert.Equal(t, []string{"a.js", "b.js"}, calls)
	assert.Equal(t, []string{"a.js"}, data.Assets.JS)
	assert.Empty(t, c.Errors)
}

func TestAddAllMissingSourcemapFailsAfterRegistration(t *testing.T) {
	_, c, data := newFixture(t, map[string]string{"app.js": "x"})

	err := run(t, []Asset{{Filepath: "app.js"}}, c, data)

	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
	assert.Equal(t, []string{"app.js"}, data.Assets.JS)
	assert.Equal(t, []string{"app.js"}, c.AssetNames())
}

func TestAddAllUnknownType(t *testing.T) {
	_, c, data := newFixture(t, map[string]string{"icon.svg": "<svg/>"})

	err := run(t, []Asset{{Filepath: "icon.svg", TypeOfAsset: "svg"}}, c, data)

	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	assert.Equal(t, []string{"icon.svg"}, c.AssetNames())
}

func TestAddAllHashOnUnregisteredName(t *testing.T) {
	adder := htmlplugin.FileAdderFunc(func(context.Context, string, *compilation.Compilation) (string, error) {
		return "ghost.js", nil
	})
	c := compilation.New(".", compilation.Options{})
	data := htmlplugin.NewPluginData(adder)

	err := run(t, []Asset{{Filepath: "ghost.js", Hash: true}}, c, data)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryInternal))
	assert.Empty(t, data.Assets.JS)
}

func TestAddAllNoFileAdder(t *testing.T) {
	c := compilation.New(".", compilation.Options{})
	err := run(t, []Asset{{Filepath: "a.js"}}, c, &htmlplugin.PluginData{})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryInternal))
}

func TestAddAllCanceled(t *testing.T) {
	_, c, data := newFixture(t, map[string]string{"a.js": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := newTestRecorder()
	err := New(WithLogger(quietLogger()), WithRecorder(rec)).AddAll(ctx, []Asset{{Filepath: "a.js"}}, c, data)

	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryCanceled))
	assert.Equal(t, 1, rec.outcomes[metrics.ResultCanceled])
	assert.Empty(t, c.Assets)
}

func TestAddAllEmptyList(t *testing.T) {
	_, c, data := newFixture(t, nil)
	require.NoError(t, run(t, nil, c, data))
	assert.Empty(t, data.Assets.JS)
}

func TestAddAllRecordsMetrics(t *testing.T) {
	_, c, data := newFixture(t, map[string]string{
		"a.js": "aaaa", "a.js.map": "{}", "b.css": "bb",
	})
	rec := newTestRecorder()
	injector := New(WithLogger(quietLogger()), WithRecorder(rec))

	assets := []Asset{
		{Filepath: "a.js"},
		{Filepath: "b.css", TypeOfAsset: htmlplugin.AssetTypeCSS, IncludeSourcemap: Bool(false)},
	}
	require.NoError(t, injector.AddAll(context.Background(), assets, c, data))

	assert.Equal(t, 1, rec.assets["js/success"])
	assert.Equal(t, 1, rec.assets["css/success"])
	assert.Equal(t, 1, rec.sourcemaps[metrics.ResultSuccess])
	assert.Equal(t, 1, rec.sourcemaps[metrics.ResultSkipped])
	assert.Equal(t, 1, rec.outcomes[metrics.ResultSuccess])
	assert.Equal(t, 1, rec.durations)
	assert.Equal(t, 6, rec.bytes)
}

func TestAddAllAssetsToCompilationCallback(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		_, c, data := newFixture(t, map[string]string{"a.js": "a"})
		calls := 0
		AddAllAssetsToCompilation(context.Background(), []Asset{{Filepath: "a.js", IncludeSourcemap: Bool(false)}}, c, data,
			func(err error, got *htmlplugin.PluginData) {
				calls++
				assert.NoError(t, err)
				assert.Same(t, data, got)
			})
		assert.Equal(t, 1, calls)
	})

	t.Run("failure carries partial data", func(t *testing.T) {
		_, c, data := newFixture(t, map[string]string{"a.js": "a"})
		calls := 0
		assets := []Asset{{Filepath: "a.js", IncludeSourcemap: Bool(false)}, {Filepath: ""}}
		AddAllAssetsToCompilation(context.Background(), assets, c, data,
			func(err error, got *htmlplugin.PluginData) {
				calls++
				require.Error(t, err)
				assert.Same(t, data, got)
				assert.Equal(t, []string{"a.js"}, got.Assets.JS)
			})
		assert.Equal(t, 1, calls)
	})

	t.Run("nil callback", func(t *testing.T) {
		_, c, data := newFixture(t, nil)
		assert.NotPanics(t, func() {
			AddAllAssetsToCompilation(context.Background(), nil, c, data, nil)
		})
	})
}

func TestRunRecoversFileAdderPanic(t *testing.T) {
	adder := htmlplugin.FileAdderFunc(func(context.Context, string, *compilation.Compilation) (string, error) {
		panic("host exploded")
	})
	c := compilation.New(".", compilation.Options{})
	data := htmlplugin.NewPluginData(adder)

	var got error
	New(WithLogger(quietLogger())).Run(context.Background(), []Asset{{Filepath: "a.js"}}, c, data,
		func(err error, _ *htmlplugin.PluginData) { got = err })

	require.Error(t, got)
	assert.True(t, ferrors.HasCategory(got, ferrors.CategoryInternal))
	assert.Contains(t, got.Error(), "panicked")
}
