package governance

import (
	"context"
	"testing"
)

func TestDefaultPolicyEngine_Evaluate(t *testing.T) {
	engine := NewDefaultPolicyEngine()
	ctx := context.Background()

	// Test Allow (Default)
	req1 := Request{Tool: "search"}
	res1, err := engine.Evaluate(ctx, req1)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res1.Effect != EffectAllow {
		t.Errorf("Expected EffectAllow, got %s", res1.Effect)
	}

	// Test Deny
	engine.DenyTool("fetch_page")
	req2 := Request{Tool: "fetch_page"}
	res2, err := engine.Evaluate(ctx, req2)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res2.Effect != EffectDeny {
		t.Errorf("Expected EffectDeny, got %s", res2.Effect)
	}
}

func TestFetchPolicyEngine(t *testing.T) {
	engine := NewFetchPolicyEngine()
	ctx := context.Background()

	cases := []struct {
		args   string
		effect Effect
	}{
		{`{"url":"https://www.amazon.com/dp/B0ABC123"}`, EffectAllow},
		{`{"url":"file:///etc/passwd"}`, EffectDeny},
		{`{"url":"http://localhost:8080/admin"}`, EffectDeny},
		{`{"url":"http://169.254.169.254/latest/meta-data"}`, EffectDeny},
	}

	for _, tc := range cases {
		res, err := engine.Evaluate(ctx, Request{Tool: "fetch_page", Arguments: tc.args})
		if err != nil {
			t.Fatalf("Evaluate(%s) failed: %v", tc.args, err)
		}
		if res.Effect != tc.effect {
			t.Errorf("Evaluate(%s): expected %s, got %s (%s)", tc.args, tc.effect, res.Effect, res.Reason)
		}
	}
}
