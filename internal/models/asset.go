package models

import (
	"strings"
)

// Storage buckets accepted by the asset store
const (
	BucketImages     = "images"
	BucketIcons      = "icons"
	BucketVideos     = "videos"
	BucketSyllabus   = "syllabus"
	BucketRecruiters = "recruiters"
)

// Buckets lists every valid storage bucket
var Buckets = []string{BucketImages, BucketIcons, BucketVideos, BucketSyllabus, BucketRecruiters}

// IsValidBucket reports whether name is a known storage bucket
func IsValidBucket(name string) bool {
	for _, b := range Buckets {
		if b == name {
			return true
		}
	}
	return false
}

// File is a local file picked for upload. Data is kept in memory so a failed
// upload can be retried with the same selection.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Empty reports whether no file was selected
func (f *File) Empty() bool {
	return f == nil || len(f.Data) == 0
}

// BaseName returns the file name without any client-side directory
func (f *File) BaseName() string {
	if f == nil {
		return ""
	}
	name := f.Name
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSpace(name)
}
