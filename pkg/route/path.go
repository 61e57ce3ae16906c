package route

import "strconv"

// Path returns the canonical route path for one payload of one wrapped
// object: /<dataset>/<index>/<suffix>.
func Path(dataset string, index int, suffix string) string {
	return "/" + dataset + "/" + strconv.Itoa(index) + "/" + suffix
}

// URL returns the absolute localhost URL for the same payload.
func URL(port int, dataset string, index int, suffix string) string {
	return "http://localhost:" + strconv.Itoa(port) + Path(dataset, index, suffix)
}
