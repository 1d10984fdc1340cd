// Package store persists uploaded datasets as flat files under a single
// directory, addressed by their validated filename.
package store
