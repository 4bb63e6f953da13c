package ingest

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jward/strata/internal/model"
)

// gradleDepRe matches the single-string dependency notation in both Groovy
// and Kotlin DSL:
//
//	implementation 'com.squareup.retrofit2:retrofit:2.9.0'
//	implementation("androidx.core:core-ktx:1.12.0")
var gradleDepRe = regexp.MustCompile(`^\s*(implementation|api|compile|compileOnly|runtimeOnly|testImplementation|androidTestImplementation|debugImplementation|releaseImplementation|kapt|ksp|annotationProcessor)\s*[\s(]\s*["']([^:"']+):([^:"']+):([^"']+)["']`)

// ParseGradleFile reads and parses a build descriptor at path.
func ParseGradleFile(path string) ([]model.ProjectDependency, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read build descriptor: %w", err)
	}
	return ParseGradle(content)
}

// ParseGradle scans build.gradle or build.gradle.kts content line by line
// for dependency declarations. Version-catalog and project() references are
// out of reach for a line scan and are silently skipped; this parser is a
// flat-list side channel, not a build-system resolver.
func ParseGradle(content []byte) ([]model.ProjectDependency, error) {
	var deps []model.ProjectDependency
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		m := gradleDepRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		deps = append(deps, model.ProjectDependency{
			Scope:    m[1],
			Group:    m[2],
			Artifact: m[3],
			Version:  strings.TrimSpace(m[4]),
		})
	}
	if err := scanner.Err(); err != nil {
		return deps, fmt.Errorf("scan build descriptor: %w", err)
	}
	return deps, nil
}
