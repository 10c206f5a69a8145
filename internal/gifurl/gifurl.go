// Package gifurl builds the ordered list of candidate GIF URLs for an
// exercise on the public asset host.
package gifurl

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"alcyxob/fitprogram/internal/catalog"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://ayttqsgttuvdhvbvbnsk.supabase.co/storage/v1/object/public/exercise-gifs"
	BucketMarker   = "exercise-gifs"

	oneHour        = 60 * 60
	urlCacheExpire = oneHour * 24
)

type muscleFolder struct {
	muscle string
	folder string
}

// muscleFolders maps a Korean muscle group label to its bucket folder. The
// order matters for the substring fallback.
var muscleFolders = []muscleFolder{
	{"가슴", "pectorals"},
	{"등", "back"},
	{"어깨", "shoulders"},
	{"삼각근", "shoulders"},
	{"이두", "biceps"},
	{"이두근", "biceps"},
	{"삼두", "triceps"},
	{"삼두근", "triceps"},
	{"복근", "abs"},
	{"복부", "abs"},
	{"대퇴사두", "quadriceps"},
	{"대퇴사두근", "quadriceps"},
	{"햄스트링", "hamstrings"},
	{"둔근", "glutes"},
	{"종아리", "calves"},
	{"전완", "forearms"},
	{"승모근", "traps"},
	{"광배근", "back"},
	{"대흉근", "pectorals"},
}

var commonFolders = []string{
	"pectorals", "back", "shoulders", "biceps", "triceps",
	"abs", "quadriceps", "hamstrings", "glutes",
}

var (
	specialChars = regexp.MustCompile(`[^\w\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
	hyphens      = regexp.MustCompile(`-+`)
)

// Folder returns the bucket folder for a muscle group label.
func Folder(muscleGroup string) string {
	if muscleGroup == "" {
		return "unknown"
	}
	for _, mf := range muscleFolders {
		if mf.muscle == muscleGroup {
			return mf.folder
		}
	}
	for _, mf := range muscleFolders {
		if strings.Contains(muscleGroup, mf.muscle) {
			return mf.folder
		}
	}
	return strings.ToLower(muscleGroup)
}

// CleanID normalizes an exercise identifier for use as a file name.
func CleanID(id string) string {
	if id == "" {
		return "unknown-exercise"
	}
	s := strings.ToLower(id)
	s = specialChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphens.ReplaceAllString(s, "-")
	return strings.TrimSpace(s)
}

type Builder struct {
	baseURL string
	catalog *catalog.Catalog
	cache   *freecache.Cache
}

func NewBuilder(baseURL string, c *catalog.Catalog) *Builder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	megabyte := 1024 * 1024
	cacheSize := 4 * megabyte

	return &Builder{
		baseURL: strings.TrimRight(baseURL, "/"),
		catalog: c,
		cache:   freecache.NewCache(cacheSize),
	}
}

func (b *Builder) BaseURL() string {
	return b.baseURL
}

// Candidates returns the candidate URLs for an exercise, most likely first,
// without duplicates. An empty identifier yields no candidates.
func (b *Builder) Candidates(exerciseID string) []string {
	if exerciseID == "" {
		return nil
	}

	cacheKey := []byte("gif::" + exerciseID)
	if cached, err := b.cache.Get(cacheKey); err == nil {
		var urls []string
		if err := json.Unmarshal(cached, &urls); err == nil {
			return urls
		}
		log.Errorf("gifurl: failed to unmarshal cached urls for %s: %s", exerciseID, err)
	}

	urls := b.build(exerciseID)

	if raw, err := json.Marshal(urls); err == nil {
		if err := b.cache.Set(cacheKey, raw, urlCacheExpire); err != nil {
			log.Debugf("gifurl: cache set %s: %s", exerciseID, err)
		}
	}
	return urls
}

// Invalidate drops every memoized candidate list.
func (b *Builder) Invalidate() {
	b.cache.Clear()
}

func (b *Builder) build(exerciseID string) []string {
	var urls []string
	cleanID := CleanID(exerciseID)

	ex, found := b.catalog.GetByID(exerciseID)
	if found {
		folder := Folder(ex.MuscleGroup)

		// record URL first: absolute as-is, bucket-relative rebased on the host
		if ex.GifURL != "" {
			switch {
			case strings.HasPrefix(ex.GifURL, "http://") || strings.HasPrefix(ex.GifURL, "https://"):
				urls = append(urls, ex.GifURL)
			case strings.Contains(ex.GifURL, BucketMarker):
				fileName := ex.GifURL[strings.LastIndex(ex.GifURL, "/")+1:]
				if fileName != "" {
					urls = append(urls, fmt.Sprintf("%s/%s/%s", b.baseURL, folder, fileName))
				}
			}
		}

		underscored := strings.ReplaceAll(cleanID, "-", "_")
		urls = append(urls,
			fmt.Sprintf("%s/%s/%s.gif", b.baseURL, folder, cleanID),
			fmt.Sprintf("%s/%s/%s.gif", b.baseURL, folder, underscored),
			fmt.Sprintf("%s/%s/%s.gif", b.baseURL, folder, strings.ReplaceAll(cleanID, "-", "")),
			fmt.Sprintf("%s/%s.gif", b.baseURL, cleanID),
			fmt.Sprintf("%s/%s.gif", b.baseURL, underscored),
		)
	} else {
		for _, folder := range commonFolders {
			urls = append(urls, fmt.Sprintf("%s/%s/%s.gif", b.baseURL, folder, cleanID))
		}
		urls = append(urls, fmt.Sprintf("%s/%s.gif", b.baseURL, cleanID))
	}

	return dedupe(urls)
}

func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := urls[:0]
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
