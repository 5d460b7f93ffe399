// Package posts normalises raw content documents into typed posts and
// serves them from a process lifetime cache.
//
// Service is the read API used by the page layer: single post lookups,
// date ordered listings, tag and category filters, related posts and
// adjacent navigation. Nothing is ever evicted from the cache; replacing
// content means restarting the process.
package posts
