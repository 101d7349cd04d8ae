package security

import "time"

// Report is the read-only posture summary of a built engine.
type Report struct {
	ProductionMode    bool
	KeyID             string
	KeyWrapping       string
	ContentEncryption string
	TokenLifetime     time.Duration
	ClockSkew         time.Duration
	AudienceCount     int
	TokenIDsIssued    bool
	RevocationActive  bool
	AuditActive       bool
	MetricsActive     bool
	Warnings          []string
}

type ReportInput struct {
	ProductionMode    bool
	KeyID             string
	DevelopmentKeyID  string
	KeyWrapping       string
	ContentEncryption string
	TokenLifetime     time.Duration
	ClockSkew         time.Duration
	Audiences         []string
	IssueTokenID      bool
	RevocationEnabled bool
	AuditEnabled      bool
	MetricsEnabled    bool
}

// Lifetimes above this are reported as a warning.
const longLifetime = time.Hour

func BuildReport(input ReportInput) Report {
	r := Report{
		ProductionMode:    input.ProductionMode,
		KeyID:             input.KeyID,
		KeyWrapping:       input.KeyWrapping,
		ContentEncryption: input.ContentEncryption,
		TokenLifetime:     input.TokenLifetime,
		ClockSkew:         input.ClockSkew,
		AudienceCount:     len(input.Audiences),
		TokenIDsIssued:    input.IssueTokenID,
		RevocationActive:  input.RevocationEnabled && input.IssueTokenID,
		AuditActive:       input.AuditEnabled,
		MetricsActive:     input.MetricsEnabled,
	}

	if input.KeyID != "" && input.KeyID == input.DevelopmentKeyID {
		r.Warnings = append(r.Warnings, "development key in use")
	}
	if input.TokenLifetime > longLifetime {
		r.Warnings = append(r.Warnings, "token lifetime exceeds one hour")
	}
	if input.ClockSkew > 0 {
		r.Warnings = append(r.Warnings, "clock skew tolerance enabled")
	}
	if !r.RevocationActive {
		r.Warnings = append(r.Warnings, "tokens cannot be revoked before expiry")
	}
	return r
}
