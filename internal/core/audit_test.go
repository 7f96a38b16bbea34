package core

import (
	"strings"
	"testing"
)

func TestDetermineSeverity(t *testing.T) {
	tests := []struct {
		action AuditAction
		want   AuditSeverity
	}{
		{ActionLoginFailed, SeverityHigh},
		{ActionProductDelete, SeverityHigh},
		{ActionPasswordUpgrade, SeverityHigh},
		{ActionProductCreate, SeverityMedium},
		{ActionProductUpdate, SeverityMedium},
		{ActionLogin, SeverityLow},
		{ActionSaleRecord, SeverityLow},
	}

	for _, tt := range tests {
		if got := determineSeverity(tt.action); got != tt.want {
			t.Errorf("determineSeverity(%s) = %s, want %s", tt.action, got, tt.want)
		}
	}
}

func TestAuditQuery(t *testing.T) {
	sql, args, err := auditQuery(AuditFilter{})
	if err != nil {
		t.Fatalf("auditQuery() error = %v", err)
	}
	want := "SELECT id, action, severity, username, entity_id, detail, ip_address, user_agent, created_at " +
		"FROM audit_log ORDER BY created_at DESC, id LIMIT 100"
	if sql != want {
		t.Errorf("auditQuery() sql =\n%s\nwant\n%s", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("auditQuery() args = %v, want none", args)
	}

	sql, args, err = auditQuery(AuditFilter{Action: ActionSaleRecord, Severity: SeverityLow, Username: "alice", Limit: 5})
	if err != nil {
		t.Fatalf("auditQuery() error = %v", err)
	}
	wantWhere := "WHERE action = $1 AND severity = $2 AND username = $3 ORDER BY created_at DESC, id LIMIT 5"
	if !strings.Contains(sql, wantWhere) {
		t.Errorf("auditQuery() sql = %s, want %q", sql, wantWhere)
	}
	if len(args) != 3 || args[0] != "sale_record" || args[1] != "low" || args[2] != "alice" {
		t.Errorf("auditQuery() args = %v", args)
	}
}
