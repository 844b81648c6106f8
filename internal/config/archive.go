package config

import (
	"fmt"
	"regexp"
)

// hcloudS3URLRegex matches Hetzner Object Storage bucket URLs and captures
// the bucket and region.
var hcloudS3URLRegex = regexp.MustCompile(`^(?:https?://)?([a-z0-9][a-z0-9-]*[a-z0-9])\.([a-z]+[0-9]*)\.your-objectstorage\.com\.?$`)

// applyObjectStorageDefaults fills Bucket, Region and Endpoint from the URL
// without overwriting explicit values.
func applyObjectStorageDefaults(a *ArchiveConfig) {
	m := hcloudS3URLRegex.FindStringSubmatch(a.URL)
	if m == nil {
		return
	}
	if a.Bucket == "" {
		a.Bucket = m[1]
	}
	if a.Region == "" {
		a.Region = m[2]
	}
	if a.Endpoint == "" {
		a.Endpoint = fmt.Sprintf("https://%s.your-objectstorage.com", m[2])
	}
}
