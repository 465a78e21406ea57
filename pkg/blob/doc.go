// Package blob abstracts the object storage holding compressed VM
// images.
//
// The Store interface is the narrow contract the upload pipeline
// depends on: put, get, and delete by key, where put returns a stable
// URL and refuses to overwrite. AzureStore implements it on Azure Blob
// Storage.
//
// Storage keys are derived with DeriveKey, which combines a nanosecond
// timestamp, a random component, the sanitized original filename, and
// the codec extension. Two concurrent uploads of the same filename
// therefore always land under distinct keys.
package blob
