package domain

import (
	"errors"
	"testing"
)

func TestGenerateAffiliateURL(t *testing.T) {
	tests := []struct {
		name        string
		asin        string
		marketplace string
		partnerTag  string
		want        string
	}{
		{
			name:        "brazilian marketplace uses regional domain",
			asin:        "B08N5WRWNW",
			marketplace: "www.amazon.com.br",
			partnerTag:  "mytag-20",
			want:        "https://www.amazon.com.br/dp/B08N5WRWNW?tag=mytag-20",
		},
		{
			name:        "default marketplace uses .com",
			asin:        "B08N5WRWNW",
			marketplace: "www.amazon.com",
			partnerTag:  "mytag-20",
			want:        "https://www.amazon.com/dp/B08N5WRWNW?tag=mytag-20",
		},
		{
			name:        "bare .br marker is enough for the regional branch",
			asin:        "B000000001",
			marketplace: "amazon.br",
			partnerTag:  "other-21",
			want:        "https://www.amazon.com.br/dp/B000000001?tag=other-21",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := Credentials{Marketplace: tt.marketplace, PartnerTag: tt.partnerTag}

			got, err := GenerateAffiliateURL(tt.asin, creds)
			if err != nil {
				t.Fatalf("GenerateAffiliateURL() error = %v, want nil", err)
			}
			if got != tt.want {
				t.Errorf("GenerateAffiliateURL() = %s, want %s", got, tt.want)
			}
		})
	}

	t.Run("is deterministic", func(t *testing.T) {
		creds := Credentials{Marketplace: "www.amazon.com.br", PartnerTag: "mytag-20"}

		first, err := GenerateAffiliateURL("B08N5WRWNW", creds)
		if err != nil {
			t.Fatalf("GenerateAffiliateURL() error = %v", err)
		}
		second, err := GenerateAffiliateURL("B08N5WRWNW", creds)
		if err != nil {
			t.Fatalf("GenerateAffiliateURL() error = %v", err)
		}
		if first != second {
			t.Errorf("GenerateAffiliateURL() not deterministic: %s != %s", first, second)
		}
	})

	t.Run("fails without a partner tag", func(t *testing.T) {
		creds := Credentials{Marketplace: "www.amazon.com.br"}

		_, err := GenerateAffiliateURL("B08N5WRWNW", creds)
		if !errors.Is(err, ErrConfigurationError) {
			t.Errorf("error = %v, want ErrConfigurationError", err)
		}
	})
}

func TestDetailPageURL(t *testing.T) {
	creds := Credentials{Marketplace: "www.amazon.com.br"}
	want := "https://www.amazon.com.br/dp/B08N5WRWNW"
	if got := DetailPageURL("B08N5WRWNW", creds); got != want {
		t.Errorf("DetailPageURL() = %s, want %s", got, want)
	}
}

func TestHasAPIKeys(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  bool
	}{
		{"both present", Credentials{AccessKey: "id", SecretKey: "secret"}, true},
		{"missing secret", Credentials{AccessKey: "id"}, false},
		{"missing key", Credentials{SecretKey: "secret"}, false},
		{"empty tuple", Credentials{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.creds.HasAPIKeys(); got != tt.want {
				t.Errorf("HasAPIKeys() = %v, want %v", got, tt.want)
			}
		})
	}
}
