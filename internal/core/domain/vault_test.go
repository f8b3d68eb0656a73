package domain

import (
	"strconv"
	"testing"
	"time"
)

func TestParseVaultType(t *testing.T) {
	tests := []struct {
		input    string
		expected VaultType
	}{
		{"private", VaultPrivate},
		{"public", VaultPublic},
		{"", VaultPublic},
		{"PRIVATE", VaultPublic},
		{"group", VaultPublic},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseVaultType(tt.input); got != tt.expected {
				t.Errorf("ParseVaultType(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestVault_CanAdmit(t *testing.T) {
	priv := NewVault("vault-priv", VaultPrivate, 0)
	if priv.MaxParticipants() != MaxPrivateParticipants {
		t.Errorf("private MaxParticipants() = %d", priv.MaxParticipants())
	}

	priv.Participants["alice"] = struct{}{}
	priv.Participants["bob"] = struct{}{}

	if priv.CanAdmit("carol") {
		t.Error("full private vault should not admit a third user")
	}
	if !priv.CanAdmit("alice") {
		t.Error("existing member should always be admitted")
	}

	pub := NewVault("vault-pub", VaultPublic, 0)
	for i := 0; i < 100; i++ {
		pub.Participants["user-"+strconv.Itoa(i)] = struct{}{}
	}
	if !pub.CanAdmit("anyone") {
		t.Error("public vault should be unbounded")
	}
	if pub.MaxParticipants() != 0 {
		t.Errorf("public MaxParticipants() = %d, want 0", pub.MaxParticipants())
	}
}

func TestMessage_FullyAcknowledged(t *testing.T) {
	m := &Message{ID: "msg-0001", Timestamp: 1000}

	if m.FullyAcknowledged(0) {
		t.Error("zero participants must never count as fully acknowledged")
	}

	m.Acknowledge("alice")
	m.Acknowledge("alice")
	if m.AckCount() != 1 {
		t.Errorf("AckCount() = %d, want 1", m.AckCount())
	}
	if m.FullyAcknowledged(2) {
		t.Error("one ack of two participants is not full")
	}

	m.Acknowledge("bob")
	if !m.FullyAcknowledged(2) {
		t.Error("two acks of two participants should be full")
	}
}

func TestMessage_Expired(t *testing.T) {
	m := &Message{Timestamp: 0}
	ttl := time.Hour

	if m.Expired(ttl.Milliseconds(), ttl) {
		t.Error("message exactly at TTL should not be expired")
	}
	if !m.Expired(ttl.Milliseconds()+1, ttl) {
		t.Error("message past TTL should be expired")
	}
}

func TestMessage_Snapshot(t *testing.T) {
	m := &Message{ID: "msg-0001", VaultID: "vault-01", Blob: "b", Timestamp: 5}
	m.Acknowledge("alice")

	snap := m.Snapshot()
	if snap.ID != m.ID || snap.Blob != m.Blob || snap.Timestamp != m.Timestamp {
		t.Errorf("Snapshot() = %+v", snap)
	}
	if snap.AcknowledgedBy != nil {
		t.Error("Snapshot() should not carry the ack set")
	}
}

func TestSweepResult_Add(t *testing.T) {
	r := SweepResult{ExpiredMessages: 1}
	r.Add(SweepResult{ExpiredMessages: 2, AckedMessages: 3, RemovedVaults: 4})

	if r != (SweepResult{ExpiredMessages: 3, AckedMessages: 3, RemovedVaults: 4}) {
		t.Errorf("Add() = %+v", r)
	}
}
