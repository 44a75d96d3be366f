// Package flickr implements driven.ImagesRepository on the Flickr REST API
// (flickr.photos.search).
//
// Requests run on an injected executor and are paced by a token bucket
// that also honours Retry-After on 429 responses. Responses are parsed
// with gjson; each photo becomes a static farm URL of the form
//
//	http://farm{farm}.static.flickr.com/{server}/{id}_{secret}.jpg
package flickr
