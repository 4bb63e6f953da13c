package strata

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/strata/internal/model"
)

// newTestProject lays out a small mixed-language app under a temp root.
func newTestProject(t *testing.T) string {
	t.Helper()
	files := map[string]string{
		"app/src/main/AndroidManifest.xml": `
<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.demo">
  <application>
    <activity android:name=".LoginActivity">
      <intent-filter>
        <action android:name="android.intent.action.MAIN"/>
        <category android:name="android.intent.category.LAUNCHER"/>
      </intent-filter>
    </activity>
    <activity android:name=".GhostActivity"/>
  </application>
</manifest>`,
		"app/build.gradle": "dependencies {\n    implementation 'androidx.core:core-ktx:1.12.0'\n}\n",
		"app/src/main/java/com/demo/LoginActivity.java": `
package com.demo;

public class LoginActivity extends AppCompatActivity {
    @Inject AuthService auth;

    void onLoginClick() {
        Intent intent = new Intent(this, MainActivity.class);
        startActivity(intent);
    }
}
`,
		"app/src/main/java/com/demo/MainActivity.kt": `
package com.demo

class MainActivity : AppCompatActivity() {
    fun openProfile() {
        startActivity(Intent(this, ProfileActivity::class.java))
    }
    fun openSettings() {
        startActivity<SettingsActivity>()
    }
}
`,
		"app/src/main/java/com/demo/ProfileActivity.kt": `
package com.demo

class ProfileActivity : AppCompatActivity() {
}
`,
		"app/src/main/java/com/demo/SettingsActivity.kt": `
package com.demo

class SettingsActivity : AppCompatActivity() {
}
`,
		"app/src/main/java/com/demo/AuthService.kt": `
package com.demo

class AuthService(private val api: LoginApi) {
}
`,
		"app/src/main/res/layout/activity_login.xml": `
<LinearLayout xmlns:android="http://schemas.android.com/apk/res/android">
    <EditText android:id="@+id/username" />
</LinearLayout>`,
		"lib/cart_screen.dart": `
class CartScreen extends StatelessWidget {
}
`,
		"app/src/main/java/com/demo/Broken.java": "public class Broken { void dangling( {",
	}
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithLogger(log.New(io.Discard))}, opts...)
	e, err := New(opts...)
	require.NoError(t, err)
	return e
}

func analyzeProject(t *testing.T, opts ...Option) *Result {
	t.Helper()
	root := newTestProject(t)
	res, err := newTestEngine(t, opts...).Analyze(context.Background(), root)
	require.NoError(t, err)
	return res
}

func TestAnalyze_ComponentsAcrossLanguages(t *testing.T) {
	t.Parallel()
	res := analyzeProject(t)

	login := res.ComponentByID("com.demo.LoginActivity")
	require.NotNil(t, login)
	assert.Equal(t, model.LangJava, login.Language)
	assert.Equal(t, model.LayerUI, login.Layer)

	main := res.ComponentByID("com.demo.MainActivity")
	require.NotNil(t, main)
	assert.Equal(t, model.LangKotlin, main.Language)

	cart := res.ComponentByID("cart_screen.CartScreen")
	require.NotNil(t, cart)
	assert.Equal(t, model.KindWidget, cart.Kind)

	layout := res.ComponentByID("activity_login")
	require.NotNil(t, layout)
	assert.Equal(t, model.KindLayout, layout.Kind)
}

func TestAnalyze_ResolutionAndPlaceholders(t *testing.T) {
	t.Parallel()
	res := analyzeProject(t)

	login := res.ComponentByID("com.demo.LoginActivity")
	require.NotNil(t, login)

	// The injected service resolved to the in-tree Kotlin class.
	require.Len(t, login.Injected, 1)
	require.True(t, login.Injected[0].Resolved())
	assert.False(t, login.Injected[0].Target.Placeholder)
	assert.Equal(t, "com.demo.AuthService", login.Injected[0].Target.ID)

	// The framework base class resolved to a shared external placeholder.
	require.True(t, login.Extends.Resolved())
	assert.True(t, login.Extends.Target.Placeholder)

	// The manifest activity with no source became a UI placeholder.
	ghost := res.ComponentByID("com.demo.GhostActivity")
	require.NotNil(t, ghost)
	assert.True(t, ghost.Placeholder)
	assert.Equal(t, model.LayerUI, ghost.Layer)

	assert.Positive(t, res.Lookups)
}

func TestAnalyze_Relationships(t *testing.T) {
	t.Parallel()
	res := analyzeProject(t)

	has := func(src, dst string, typ model.RelationType) bool {
		for _, r := range res.Relationships {
			if r.SourceID == src && r.TargetID == dst && r.Type == typ {
				return true
			}
		}
		return false
	}

	assert.True(t, has("com.demo.LoginActivity", "com.demo.AuthService", model.RelInjected))
	assert.True(t, has("com.demo.LoginActivity", "AppCompatActivity", model.RelExtends))

	// Navigation edges share the structural edges' node namespace: screen
	// names resolve to component ids when the match is unambiguous.
	assert.True(t, has("com.demo.LoginActivity", "com.demo.MainActivity", model.RelNavigatesTo))
	assert.True(t, has("com.demo.MainActivity", "com.demo.ProfileActivity", model.RelNavigatesTo))
}

func TestAnalyze_NavigationAndUserFlows(t *testing.T) {
	t.Parallel()
	res := analyzeProject(t)

	targets := map[string]bool{}
	for _, f := range res.NavigationFlows {
		targets[f.SourceScreenID+"->"+f.TargetScreenID] = true
	}
	assert.True(t, targets["LoginActivity->MainActivity"])
	assert.True(t, targets["MainActivity->ProfileActivity"])
	assert.True(t, targets["MainActivity->SettingsActivity"])

	types := map[string]model.FlowType{}
	for _, uf := range res.UserFlows {
		types[uf.ID] = uf.FlowType
	}
	assert.Equal(t, model.FlowEntryPoint, types["com.demo.LoginActivity"])
	assert.Equal(t, model.FlowDecisionPoint, types["com.demo.MainActivity"])
	assert.Equal(t, model.FlowExitPoint, types["com.demo.ProfileActivity"])
	assert.Equal(t, model.FlowExitPoint, types["com.demo.SettingsActivity"])
}

func TestAnalyze_SideChannels(t *testing.T) {
	t.Parallel()
	res := analyzeProject(t)

	assert.Equal(t, "com.demo", res.Manifest.Package)
	assert.Equal(t, []string{"LoginActivity"}, res.Manifest.LauncherNames())

	require.Len(t, res.Dependencies, 1)
	assert.Equal(t, "core-ktx", res.Dependencies[0].Artifact)
}

func TestAnalyze_PartialFailureTolerance(t *testing.T) {
	t.Parallel()
	res := analyzeProject(t)

	// The broken Java file degraded to a diagnostic without sinking the run.
	var stages []string
	for _, d := range res.Diagnostics {
		stages = append(stages, d.Stage)
	}
	assert.Contains(t, stages, "extract")
	require.NotNil(t, res.ComponentByID("com.demo.LoginActivity"))
}

func TestAnalyze_DeterministicAcrossModes(t *testing.T) {
	t.Parallel()
	root := newTestProject(t)

	parallel, err := newTestEngine(t, WithWorkers(4)).Analyze(context.Background(), root)
	require.NoError(t, err)
	serial, err := newTestEngine(t, WithParallel(false)).Analyze(context.Background(), root)
	require.NoError(t, err)

	ids := func(r *Result) []string {
		var out []string
		for _, c := range r.Components {
			out = append(out, c.ID)
		}
		return out
	}
	assert.Empty(t, cmp.Diff(ids(parallel), ids(serial)))
	assert.Empty(t, cmp.Diff(parallel.Relationships, serial.Relationships))
	assert.Empty(t, cmp.Diff(parallel.NavigationFlows, serial.NavigationFlows))
	assert.Empty(t, cmp.Diff(parallel.UserFlows, serial.UserFlows))
	assert.Empty(t, cmp.Diff(parallel.Processes, serial.Processes))
}

func TestAnalyze_EngineReuseSeesFileEdits(t *testing.T) {
	t.Parallel()
	root := newTestProject(t)
	e := newTestEngine(t)

	_, err := e.Analyze(context.Background(), root)
	require.NoError(t, err)

	// Rewrite a Java file between runs; the second run must reflect the new
	// declaration instead of pairing a cached tree with stale offsets.
	path := filepath.Join(root, filepath.FromSlash("app/src/main/java/com/demo/LoginActivity.java"))
	require.NoError(t, os.WriteFile(path, []byte(`
package com.demo;

public class SignupActivity extends AppCompatActivity {
}
`), 0o644))

	res, err := e.Analyze(context.Background(), root)
	require.NoError(t, err)
	signup := res.ComponentByID("com.demo.SignupActivity")
	require.NotNil(t, signup)
	assert.False(t, signup.Placeholder)

	// LoginActivity survives only as the manifest's UI placeholder.
	login := res.ComponentByID("com.demo.LoginActivity")
	require.NotNil(t, login)
	assert.True(t, login.Placeholder)
}

func TestAnalyze_LanguageFilter(t *testing.T) {
	t.Parallel()
	root := newTestProject(t)
	res, err := newTestEngine(t, WithLanguages(model.LangDart)).Analyze(context.Background(), root)
	require.NoError(t, err)

	assert.NotNil(t, res.ComponentByID("cart_screen.CartScreen"))
	assert.Nil(t, res.ComponentByID("com.demo.MainActivity"))
}

func TestAnalyze_Excludes(t *testing.T) {
	t.Parallel()
	root := newTestProject(t)
	res, err := newTestEngine(t, WithExcludes("lib/**")).Analyze(context.Background(), root)
	require.NoError(t, err)
	assert.Nil(t, res.ComponentByID("cart_screen.CartScreen"))
}

func TestAnalyze_MissingRoot(t *testing.T) {
	t.Parallel()
	_, err := newTestEngine(t).Analyze(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(`
excludes:
  - "**/generated/**"
languages:
  - java
  - kotlin
workers: 2
max_file_size: 1048576
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"**/generated/**"}, cfg.Excludes)
	assert.Equal(t, []string{"java", "kotlin"}, cfg.Languages)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, int64(1048576), cfg.MaxFileSize)
}

func TestLoadConfig_MissingFileIsZeroConfig(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadConfig_Malformed(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("excludes: [unclosed"), 0o644))
	_, err := LoadConfig(path)
	require.Error(t, err)
}
