package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadConfigJSON(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "syxconfig.json")
	writeFile(t, path, `{
  "name": "demo",
  "rootDir": "src",
  "outDir": "out",
  "format": "ts",
  "ignoredChecks": ["rule-conflict"]
}`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", config.Name)
	assert.Equal(t, filepath.Join(dir, "src"), config.RootDir, "relative dirs anchor at the config file")
	assert.Equal(t, filepath.Join(dir, "out"), config.OutDir)
	assert.Equal(t, "ts", config.Format)
	assert.Equal(t, []string{"rule-conflict"}, config.IgnoredChecks)
}

func TestLoadConfigYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "syxconfig.yaml")
	writeFile(t, path, "name: demo\nrootDir: src\noutDir: out\nformat: py\n")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "py", config.Format)
}

func TestLoadConfigRequiresFields(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "syxconfig.json")
	writeFile(t, path, `{"rootDir": "src", "outDir": "out"}`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format is required")
}

func TestLoadConfigUnsupportedExtension(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "syxconfig.toml")
	writeFile(t, path, "format = 'py'")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestFindConfigWalksUpward(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "syxconfig.yml"), "rootDir: src\noutDir: out\nformat: py\n")
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "syxconfig.yml"), found)
}

func TestWriteDefaultConfigRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "syxconfig.json")
	require.NoError(t, WriteDefaultConfig(path))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "syx-project", config.Name)
	assert.Equal(t, "py", config.Format)
}

func TestNewAppliesIgnoredChecks(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "syxconfig.json")
	writeFile(t, path, `{"rootDir": "src", "outDir": "out", "format": "py", "ignoredChecks": ["rule-conflict"]}`)

	engine, config, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, "py", config.Format)

	conflicting := "rule 'enforce-single-string-quotes':true;\n" +
		"rule 'enforce-double-string-quotes':true;"
	report := engine.Report("x.syx", []byte(conflicting))
	assert.Empty(t, report.Items)
}

func TestProcessFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "clean.syx"), "keyword loop;\n")
	writeFile(t, filepath.Join(dir, "broken.syx"), "keyword broken\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a source file\n")

	engine, _, err := New(writeConfig(t, dir))
	require.NoError(t, err)

	reports, err := ProcessFiles(context.Background(), nil, engine, []string{dir})
	require.NoError(t, err)
	require.Len(t, reports, 2, "non-source files are skipped")

	assert.Equal(t, filepath.Join(dir, "broken.syx"), reports[0].Path)
	assert.NotEmpty(t, reports[0].Report.Items)
	assert.Equal(t, filepath.Join(dir, "clean.syx"), reports[1].Path)
	assert.Empty(t, reports[1].Report.Items)
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "syxconfig.json")
	writeFile(t, path, `{"rootDir": "src", "outDir": "out", "format": "py"}`)
	return path
}

func TestBuild(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	rootDir := filepath.Join(dir, "src")
	outDir := filepath.Join(dir, "out")

	writeFile(t, filepath.Join(rootDir, "ops.syx"),
		"export operator <int> +s '+' +s <int> {\n"+
			"\tcompile(ts) a|0 +s '+' +s b|1;\n"+
			"}\n")
	writeFile(t, filepath.Join(rootDir, "main.sys"), "import 'ops';:::const x = 3+4\n")

	config := Config{RootDir: rootDir, OutDir: outDir, Format: "ts"}
	require.NoError(t, Build(context.Background(), nil, config))

	written, err := os.ReadFile(filepath.Join(outDir, "main.ts"))
	require.NoError(t, err)
	assert.Equal(t, "const x = 3 + 4\n", string(written))
}

func TestBuildCompilesDeclarationsInImportOrder(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	rootDir := filepath.Join(dir, "src")
	outDir := filepath.Join(dir, "out")

	// zz.syx sorts after aa.syx but must compile first: aa imports it
	writeFile(t, filepath.Join(rootDir, "zz.syx"),
		"export operator <int> '+' <int> { compile(ts) a|0 '+' b|1; }\n")
	writeFile(t, filepath.Join(rootDir, "aa.syx"),
		"import 'zz';\nexport operator <int> '-' <int> { compile(ts) a|0 '-' b|1; }\n")
	writeFile(t, filepath.Join(rootDir, "main.sys"), "import 'aa';\nimport 'zz';:::1+2-3\n")

	config := Config{RootDir: rootDir, OutDir: outDir, Format: "ts"}
	require.NoError(t, Build(context.Background(), nil, config))

	written, err := os.ReadFile(filepath.Join(outDir, "main.ts"))
	require.NoError(t, err)
	assert.Equal(t, "1+2-3\n", string(written))
}

func TestBuildDetectsImportCycle(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	rootDir := filepath.Join(dir, "src")

	writeFile(t, filepath.Join(rootDir, "a.syx"), "import 'b';\nkeyword x;\n")
	writeFile(t, filepath.Join(rootDir, "b.syx"), "import 'a';\nkeyword y;\n")

	config := Config{RootDir: rootDir, OutDir: filepath.Join(dir, "out"), Format: "ts"}
	err := Build(context.Background(), nil, config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import cycle")
}

func TestBuildReportsFailuresAcrossFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	rootDir := filepath.Join(dir, "src")
	outDir := filepath.Join(dir, "out")

	writeFile(t, filepath.Join(rootDir, "broken.syx"), "keyword broken\n")
	writeFile(t, filepath.Join(rootDir, "ops.syx"),
		"export operator <int> '+' <int> { compile(ts) a|0 '+' b|1; }\n")
	writeFile(t, filepath.Join(rootDir, "main.sys"), "import 'ops';:::1+2\n")

	config := Config{RootDir: rootDir, OutDir: outDir, Format: "ts"}
	err := Build(context.Background(), nil, config)
	require.Error(t, err, "the broken declaration must surface")

	// the healthy usage file still compiled
	written, readErr := os.ReadFile(filepath.Join(outDir, "main.ts"))
	require.NoError(t, readErr)
	assert.Equal(t, "1+2\n", string(written))
}

func TestDeclarationOrder(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.syx"), "keyword x;\n")
	writeFile(t, filepath.Join(dir, "mid.syx"), "import 'base';\nkeyword y;\n")
	writeFile(t, filepath.Join(dir, "top.syx"), "import 'mid';\nkeyword z;\n")

	ordered, err := declarationOrder([]string{
		filepath.Join(dir, "top.syx"),
		filepath.Join(dir, "mid.syx"),
		filepath.Join(dir, "base.syx"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "base.syx"),
		filepath.Join(dir, "mid.syx"),
		filepath.Join(dir, "top.syx"),
	}, ordered)
}
