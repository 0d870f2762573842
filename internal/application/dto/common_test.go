package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Danbaba1/Inventory-Management-sub001/internal/application/dto"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name              string
		page, limit, total int
		want              dto.Pagination
	}{
		{
			name: "primera página con más páginas",
			page: 1, limit: 10, total: 25,
			want: dto.Pagination{CurrentPage: 1, TotalPages: 3, TotalRecords: 25, HasNextPage: true, HasPrevPage: false},
		},
		{
			name: "última página parcial",
			page: 3, limit: 10, total: 25,
			want: dto.Pagination{CurrentPage: 3, TotalPages: 3, TotalRecords: 25, HasNextPage: false, HasPrevPage: true},
		},
		{
			name: "total exacto al límite",
			page: 2, limit: 5, total: 10,
			want: dto.Pagination{CurrentPage: 2, TotalPages: 2, TotalRecords: 10, HasNextPage: false, HasPrevPage: true},
		},
		{
			name: "sin registros",
			page: 1, limit: 10, total: 0,
			want: dto.Pagination{CurrentPage: 1, TotalPages: 0, TotalRecords: 0, HasNextPage: false, HasPrevPage: false},
		},
		{
			name: "página más allá del final",
			page: 9, limit: 10, total: 25,
			want: dto.Pagination{CurrentPage: 9, TotalPages: 3, TotalRecords: 25, HasNextPage: false, HasPrevPage: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, dto.NewPagination(tc.page, tc.limit, tc.total))
		})
	}
}
