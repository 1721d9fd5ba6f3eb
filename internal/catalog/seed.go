package catalog

import (
	"github.com/JonMunkholm/uikit/internal/store"
	"github.com/JonMunkholm/uikit/internal/ui"
)

// Users is the bundled user directory.
var Users = []store.Row{
	{"name": "Ada Lovelace", "email": "ada@example.com", "role": "Admin", "city": "London"},
	{"name": "Alan Turing", "email": "alan@example.com", "role": "Editor", "city": "Manchester"},
	{"name": "Grace Hopper", "email": "grace@example.com", "role": "Admin", "city": "New York"},
	{"name": "Edsger Dijkstra", "email": "edsger@example.com", "role": "Viewer", "city": "Nuenen"},
	{"name": "Barbara Liskov", "email": "barbara@example.com", "role": "Editor", "city": "Boston"},
	{"name": "Ken Thompson", "email": "ken@example.com", "role": "Viewer", "city": "New Orleans"},
	{"name": "Frances Allen", "email": "fran@example.com", "role": "Editor", "city": "Peru"},
	{"name": "Donald Knuth", "email": "don@example.com", "role": "Viewer", "city": "Milwaukee"},
	{"name": "Ørjan Ødegård", "email": "orjan@example.com", "role": "Viewer", "city": "Ålesund"},
	{"name": "Émilie du Châtelet", "email": "emilie@example.com", "role": "Admin", "city": "Paris"},
	{"name": "Radia Perlman", "email": "radia@example.com", "role": "Editor", "city": "Portsmouth"},
	{"name": "John Backus", "email": "john@example.com", "role": "Viewer", "city": "Philadelphia"},
}

type fileSeed struct {
	name, mediaType, owner string
	size                   int64
}

var files = []fileSeed{
	{"avatar.png", "image/png", "Ada Lovelace", 48_213},
	{"banner.jpg", "image/jpeg", "Grace Hopper", 1_572_864},
	{"loading.gif", "image/gif", "Alan Turing", 912},
	{"report.pdf", "application/pdf", "Barbara Liskov", 3_407_872},
	{"backup.tar", "application/x-tar", "Ken Thompson", 5_368_709_120},
	{"empty.txt", "text/plain", "Donald Knuth", 0},
}

// Files returns the bundled file listing, sizes formatted for display.
func Files() []store.Row {
	rows := make([]store.Row, len(files))
	for i, f := range files {
		rows[i] = store.Row{
			"name":  f.name,
			"type":  f.mediaType,
			"size":  ui.FormatFileSize(f.size),
			"owner": f.owner,
		}
	}
	return rows
}

// Seed loads the bundled rows into an in-memory source.
func Seed(src *store.MemorySource) {
	for _, def := range []struct {
		source string
		rows   []store.Row
	}{
		{"uikit_users", Users},
		{"uikit_files", Files()},
	} {
		src.Put(def.source, def.rows...)
	}
}
