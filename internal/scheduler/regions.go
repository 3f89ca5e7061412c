package scheduler

import "github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/model"

// Region identifies a display slot on the player. The numeric codes are a
// stable external contract shared with player devices and authored schedule
// data; do not renumber them.
type Region int

const (
	RegionVideo Region = 1
	RegionImage Region = 2
	RegionText  Region = 4
)

// Regions lists every known region in resolution order.
var Regions = []Region{RegionVideo, RegionImage, RegionText}

// regionKinds maps each region to the media kinds it may display. This is
// the single place the compatibility policy lives; the validator consults it
// and nothing else does. The video region also plays images and embedded
// links, the image and text regions are single-kind.
var regionKinds = map[Region][]string{
	RegionVideo: {model.MediaTypeVideo, model.MediaTypeImage, model.MediaTypeYouTube, model.MediaTypeLink},
	RegionImage: {model.MediaTypeImage},
	RegionText:  {model.MediaTypeText},
}

// Valid reports whether r is one of the known region codes.
func (r Region) Valid() bool {
	_, ok := regionKinds[r]
	return ok
}

// AllowsKind reports whether media of the given kind may be scheduled in r.
func (r Region) AllowsKind(kind string) bool {
	for _, k := range regionKinds[r] {
		if k == kind {
			return true
		}
	}
	return false
}

func (r Region) String() string {
	switch r {
	case RegionVideo:
		return "video"
	case RegionImage:
		return "image"
	case RegionText:
		return "text"
	}
	return "unknown"
}
