package api

import (
	"net/http/httptest"
	"testing"

	"github.com/paydesk/deposit-service/internal/domain"
)

func TestParseListOptions(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    domain.ListOptions
		wantErr bool
	}{
		{
			name:   "defaults",
			target: "/v1/deposits",
			want:   domain.ListOptions{Limit: 10, Page: 1, SortField: "createdAt", SortDesc: true},
		},
		{
			name:   "explicit pagination",
			target: "/v1/deposits?limit=25&page=3",
			want:   domain.ListOptions{Limit: 25, Page: 3, SortField: "createdAt", SortDesc: true},
		},
		{
			name:   "ascending sort",
			target: "/v1/deposits?sortBy=amount:asc",
			want:   domain.ListOptions{Limit: 10, Page: 1, SortField: "amount", SortDesc: false},
		},
		{
			name:   "descending sort",
			target: "/v1/deposits?sortBy=transactionId:desc",
			want:   domain.ListOptions{Limit: 10, Page: 1, SortField: "transactionId", SortDesc: true},
		},
		{
			name:    "invalid direction",
			target:  "/v1/deposits?sortBy=amount:sideways",
			wantErr: true,
		},
		{
			name:    "zero limit",
			target:  "/v1/deposits?limit=0",
			wantErr: true,
		},
		{
			name:    "negative page",
			target:  "/v1/deposits?page=-1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			got, err := parseListOptions(r, 10)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
