// Package model defines the persistent entities of vmvault.
//
// The only persisted entity is VMRecord, one row per uploaded VM image
// in the vm_metadata table. A record carries the storage reference of
// the compressed image blob, the CodecTag that produced those bytes,
// and the provisioning profile (location, size, image reference, admin
// username) used when the VM is started.
//
// The admin credential is deliberately absent: it is accepted
// transiently at provisioning time and never written to the database.
package model
