package ingest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/jward/strata/internal/model"
)

// ParseManifestFile reads and parses a manifest at path.
func ParseManifestFile(path string) (model.ManifestInfo, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return model.ManifestInfo{}, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(content)
}

// ParseManifest parses AndroidManifest.xml content into side-channel
// metadata: the package, each activity with its launcher flag, services,
// receivers, and permissions.
//
// Token-based rather than struct-decoded: manifest attributes live in the
// android namespace and tooling emits enough schema variation that matching
// on local attribute names is the robust path.
func ParseManifest(content []byte) (model.ManifestInfo, error) {
	var info model.ManifestInfo
	dec := xml.NewDecoder(bytes.NewReader(content))
	dec.Strict = false

	// The activity currently open, so its intent-filter children can flip
	// the launcher flag.
	activityIdx := -1

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.ManifestInfo{}, fmt.Errorf("parse manifest: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "manifest":
				info.Package = attrLocal(el, "package")
			case "activity", "activity-alias":
				if name := attrLocal(el, "name"); name != "" {
					info.Activities = append(info.Activities, model.ManifestActivity{
						Name: qualifyManifestName(info.Package, name),
					})
					activityIdx = len(info.Activities) - 1
				}
			case "service":
				if name := attrLocal(el, "name"); name != "" {
					info.Services = append(info.Services, qualifyManifestName(info.Package, name))
				}
			case "receiver":
				if name := attrLocal(el, "name"); name != "" {
					info.Receivers = append(info.Receivers, qualifyManifestName(info.Package, name))
				}
			case "uses-permission":
				if name := attrLocal(el, "name"); name != "" {
					info.Permissions = append(info.Permissions, name)
				}
			case "category":
				if activityIdx >= 0 && attrLocal(el, "name") == "android.intent.category.LAUNCHER" {
					info.Activities[activityIdx].Launcher = true
				}
			}
		case xml.EndElement:
			if el.Name.Local == "activity" || el.Name.Local == "activity-alias" {
				activityIdx = -1
			}
		}
	}
	return info, nil
}

// attrLocal returns the value of the attribute with the given local name,
// ignoring namespace.
func attrLocal(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// qualifyManifestName expands the shorthand ".LoginActivity" form against
// the manifest package.
func qualifyManifestName(pkg, name string) string {
	if len(name) > 0 && name[0] == '.' {
		return pkg + name
	}
	return name
}
