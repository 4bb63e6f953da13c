package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/strata/internal/model"
)

// writeTree materializes a map of relative path -> content under a temp root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func relPaths(files []SourceFile) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.Rel)
	}
	return out
}

func TestScan_ClassifiesByExtension(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"app/src/Main.java":       "class Main {}",
		"app/src/Login.kt":        "class Login",
		"lib/home.dart":           "class Home {}",
		"res/layout/activity.xml": "<LinearLayout />",
		"README.md":               "docs",
	})

	tree, err := Scan(root, Options{})
	require.NoError(t, err)
	require.Len(t, tree.Files, 4)

	byRel := map[string]model.Language{}
	for _, f := range tree.Files {
		byRel[f.Rel] = f.Language
	}
	assert.Equal(t, model.LangJava, byRel["app/src/Main.java"])
	assert.Equal(t, model.LangKotlin, byRel["app/src/Login.kt"])
	assert.Equal(t, model.LangDart, byRel["lib/home.dart"])
	assert.Equal(t, model.LangXML, byRel["res/layout/activity.xml"])
}

func TestScan_SkipsBuildAndHiddenDirs(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"src/Main.java":            "class Main {}",
		"build/Gen.java":           "class Gen {}",
		"node_modules/x/Dep.java":  "class Dep {}",
		".git/hooks/Hook.java":     "class Hook {}",
		".hidden.java":             "class Hidden {}",
		"src/.generated/Skip.java": "class Skip {}",
	})

	tree, err := Scan(root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/Main.java"}, relPaths(tree.Files))
}

func TestScan_ExcludeGlobs(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"src/Main.java":          "class Main {}",
		"src/generated/Gen.java": "class Gen {}",
	})

	globs, err := CompileExcludes([]string{"**/generated/**"})
	require.NoError(t, err)

	tree, err := Scan(root, Options{Excludes: globs})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/Main.java"}, relPaths(tree.Files))
}

func TestCompileExcludes_BadPattern(t *testing.T) {
	t.Parallel()
	_, err := CompileExcludes([]string{"[unclosed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[unclosed")
}

func TestScan_LanguageFilter(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"Main.java": "class Main {}",
		"Login.kt":  "class Login",
	})

	tree, err := Scan(root, Options{Languages: map[model.Language]bool{model.LangJava: true}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Main.java"}, relPaths(tree.Files))
}

func TestScan_OversizedFileSkippedWithDiagnostic(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"Big.java":   strings.Repeat("x", 256),
		"Small.java": "class Small {}",
	})

	tree, err := Scan(root, Options{MaxFileSize: 100})
	require.NoError(t, err)
	assert.Equal(t, []string{"Small.java"}, relPaths(tree.Files))
	require.Len(t, tree.Diagnostics, 1)
	assert.Equal(t, "Big.java", tree.Diagnostics[0].Path)
	assert.Equal(t, "scan", tree.Diagnostics[0].Stage)
}

func TestScan_ManifestSideChannel(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"app/src/main/AndroidManifest.xml": `
<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.app">
  <application>
    <activity android:name=".LoginActivity">
      <intent-filter>
        <action android:name="android.intent.action.MAIN"/>
        <category android:name="android.intent.category.LAUNCHER"/>
      </intent-filter>
    </activity>
  </application>
</manifest>`,
		"app/src/Main.java": "class Main {}",
	})

	tree, err := Scan(root, Options{})
	require.NoError(t, err)
	// The manifest is metadata, never a source file.
	assert.Equal(t, []string{"app/src/Main.java"}, relPaths(tree.Files))
	assert.Equal(t, "com.app", tree.Manifest.Package)
	require.Len(t, tree.Manifest.Activities, 1)
	assert.Equal(t, "com.app.LoginActivity", tree.Manifest.Activities[0].Name)
	assert.True(t, tree.Manifest.Activities[0].Launcher)
}

func TestScan_MalformedManifestDegradesToDiagnostic(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"AndroidManifest.xml": "<manifest><activity",
		"Main.java":           "class Main {}",
	})

	tree, err := Scan(root, Options{})
	require.NoError(t, err)
	assert.Empty(t, tree.Manifest.Activities)
	require.NotEmpty(t, tree.Diagnostics)
	assert.Equal(t, "manifest", tree.Diagnostics[0].Stage)
}

func TestScan_GradleDependenciesAccumulate(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"build.gradle":     "dependencies {\n    implementation 'com.squareup.retrofit2:retrofit:2.9.0'\n}\n",
		"app/build.gradle": "dependencies {\n    implementation 'androidx.room:room-runtime:2.6.1'\n}\n",
	})

	tree, err := Scan(root, Options{})
	require.NoError(t, err)
	require.Len(t, tree.Dependencies, 2)
	artifacts := []string{tree.Dependencies[0].Artifact, tree.Dependencies[1].Artifact}
	assert.ElementsMatch(t, []string{"retrofit", "room-runtime"}, artifacts)
}

func TestScan_MissingRootFails(t *testing.T) {
	t.Parallel()
	_, err := Scan(filepath.Join(t.TempDir(), "nope"), Options{})
	require.Error(t, err)
}
