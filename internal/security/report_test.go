package security

import (
	"slices"
	"testing"
	"time"
)

func TestBuildReportHardened(t *testing.T) {
	r := BuildReport(ReportInput{
		ProductionMode:    true,
		KeyID:             "prod-1",
		DevelopmentKeyID:  "dev",
		KeyWrapping:       "A256KW",
		ContentEncryption: "A128CBC-HS256",
		TokenLifetime:     5 * time.Minute,
		Audiences:         []string{"billing", "search"},
		IssueTokenID:      true,
		RevocationEnabled: true,
	})

	if len(r.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", r.Warnings)
	}
	if !r.RevocationActive || r.AudienceCount != 2 || r.KeyID != "prod-1" {
		t.Fatalf("unexpected report %+v", r)
	}
}

func TestBuildReportWarnings(t *testing.T) {
	r := BuildReport(ReportInput{
		KeyID:             "dev",
		DevelopmentKeyID:  "dev",
		TokenLifetime:     2 * time.Hour,
		ClockSkew:         time.Second,
		RevocationEnabled: true,
	})

	for _, want := range []string{
		"development key in use",
		"token lifetime exceeds one hour",
		"clock skew tolerance enabled",
		"tokens cannot be revoked before expiry",
	} {
		if !slices.Contains(r.Warnings, want) {
			t.Fatalf("missing warning %q in %v", want, r.Warnings)
		}
	}
	if r.RevocationActive {
		t.Fatal("revocation without token ids must not be reported active")
	}
}
