// Package event carries DatasetUploaded notifications from the upload path
// to background handlers through a bounded in-process bus.
package event
