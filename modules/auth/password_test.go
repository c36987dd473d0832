package auth

import "testing"

// testHasher uses the minimum bcrypt cost to keep the suite fast.
func testHasher() *PasswordHasher {
	return &PasswordHasher{cost: 4}
}

func TestPasswordHasher_Hash(t *testing.T) {
	hasher := testHasher()

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"with symbols", "p@ssw0rd!#$%"},
		{"with spaces", "my secret phrase"},
		{"unicode", "pässwörd日本語"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.password)
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if hash == "" {
				t.Fatal("Hash() returned empty string")
			}
			if hash == tt.password {
				t.Error("Hash() returned the plaintext password")
			}
		})
	}
}

func TestPasswordHasher_Verify(t *testing.T) {
	hasher := testHasher()

	hash, err := hasher.Hash("correct-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"matching password", "correct-password", hash, true},
		{"wrong password", "wrong-password", hash, false},
		{"empty password", "", hash, false},
		{"case sensitive", "Correct-Password", hash, false},
		{"invalid hash", "correct-password", "not-a-bcrypt-hash", false},
		{"empty hash", "correct-password", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasher.Verify(tt.password, tt.hash); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPasswordHasher_UniqueHashes(t *testing.T) {
	hasher := testHasher()

	first, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if first == second {
		t.Error("expected different hashes for the same password")
	}
	if !hasher.Verify("same-password", first) || !hasher.Verify("same-password", second) {
		t.Error("both hashes should verify against the original password")
	}
}
