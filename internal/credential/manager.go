// Copyright (C) 2019-2026, NexaFlow Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package credential implements §4.3.4's attestation-credential family:
// an issuer-signed claim about a subject account that the subject must
// separately accept before it becomes active.
package credential

// Credential is one issued attestation.
type Credential struct {
	Issuer   string
	Subject  string
	CredType string
	Accepted bool
}

func key(issuer, subject, credType string) string { return issuer + "|" + subject + "|" + credType }

// Manager holds every issued credential.
type Manager struct {
	entries map[string]*Credential
}

// New returns an empty Manager.
func New() *Manager { return &Manager{entries: make(map[string]*Credential)} }

// Create issues a new unaccepted credential.
func (m *Manager) Create(issuer, subject, credType string) (ok bool, msg string) {
	k := key(issuer, subject, credType)
	if _, exists := m.entries[k]; exists {
		return false, "credential already exists"
	}
	m.entries[k] = &Credential{Issuer: issuer, Subject: subject, CredType: credType}
	return true, ""
}

// Accept marks a credential as accepted by its subject.
func (m *Manager) Accept(issuer, subject, credType string) (ok bool, msg string) {
	c, found := m.entries[key(issuer, subject, credType)]
	if !found {
		return false, "no such credential"
	}
	c.Accepted = true
	return true, ""
}

// Delete removes a credential.
func (m *Manager) Delete(issuer, subject, credType string) (ok bool, msg string) {
	k := key(issuer, subject, credType)
	if _, exists := m.entries[k]; !exists {
		return false, "no such credential"
	}
	delete(m.entries, k)
	return true, ""
}

// Clone returns a deep copy for invariant-rollback snapshots.
func (m *Manager) Clone() *Manager {
	out := New()
	for k, c := range m.entries {
		cred := *c
		out.entries[k] = &cred
	}
	return out
}
