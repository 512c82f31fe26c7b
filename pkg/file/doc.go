// Package file stores uploaded media.
//
// Storage has two implementations: LocalStorage writes below a directory,
// S3Storage writes to a bucket through aws-sdk-go-v2. Both reject keys that
// would escape their root.
//
// The upload helpers are independent of the backend:
//
//	mime, body, err := file.Sniff(r)          // content-based MIME type
//	if !file.SameFamily(declared, mime) { ... }
//	key := file.NewKey("uploads", name)       // uploads/<uuid>-<safe name>
//	obj, err := store.Put(ctx, key, file.LimitReader(body, max), size, declared)
package file
