package goJWE

import (
	"time"

	"github.com/MrEthical07/goJWE/internal/security"
)

// SecurityReport summarizes the security posture of a built engine.
type SecurityReport struct {
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

// SecurityReport returns the posture of e. Key material is never included.
func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	r := security.BuildReport(security.ReportInput{
		ProductionMode:    e.config.Security.ProductionMode,
		KeyID:             e.keyID,
		DevelopmentKeyID:  e.config.Key.DevelopmentKeyID,
		KeyWrapping:       e.config.Token.KeyWrapping,
		ContentEncryption: e.config.Token.ContentEncryption,
		TokenLifetime:     e.config.Token.Lifetime,
		ClockSkew:         e.config.Token.ClockSkew,
		Audiences:         e.config.Token.Audiences,
		IssueTokenID:      e.config.Token.IssueTokenID,
		RevocationEnabled: e.revoker != nil || e.verifier.deps.Revocation != nil,
		AuditEnabled:      e.audit != nil,
		MetricsEnabled:    e.metrics.Enabled(),
	})

	return SecurityReport{
		ProductionMode:    r.ProductionMode,
		KeyID:             r.KeyID,
		KeyWrapping:       r.KeyWrapping,
		ContentEncryption: r.ContentEncryption,
		TokenLifetime:     r.TokenLifetime,
		ClockSkew:         r.ClockSkew,
		AudienceCount:     r.AudienceCount,
		TokenIDsIssued:    r.TokenIDsIssued,
		RevocationActive:  r.RevocationActive,
		AuditActive:       r.AuditActive,
		MetricsActive:     r.MetricsActive,
		Warnings:          r.Warnings,
	}
}
