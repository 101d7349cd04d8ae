package goJWE

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/goJWE/claims"
	"go.uber.org/zap"
)

func FuzzVerify(f *testing.F) {
	engine, err := New().WithConfig(testConfig()).WithLogger(zap.NewNop()).Build()
	if err != nil {
		f.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	token, err := engine.Issue(context.Background(), claims.Set{"aud": "billing"})
	if err != nil {
		f.Fatalf("Issue failed: %v", err)
	}
	f.Add(token)
	f.Add(flipLast(token))
	f.Add("")
	f.Add("eyJhbGciOiJBMjU2S1ciLCJlbmMiOiJBMTI4Q0JDLUhTMjU2In0.....................................")

	f.Fuzz(func(t *testing.T, input string) {
		set, err := engine.Verify(context.Background(), input)
		if err != nil && set != nil {
			t.Fatal("claims returned alongside an error")
		}
		if err == nil && len(set.Missing(claims.Mandatory...)) != 0 {
			t.Fatalf("accepted claims without mandatory members: %v", set)
		}
		if err != nil && errors.Is(err, ErrNilContext) {
			t.Fatal("unexpected usage error")
		}
	})
}
