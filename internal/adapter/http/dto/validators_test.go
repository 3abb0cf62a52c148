package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := RegisterRequest{
		Email:     "  asha@example.com ",
		FirstName: "  Asha  ",
		LastName:  " Rao ",
		Major:     " Physics",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "asha@example.com", req.Email)
	assert.Equal(t, "Asha", req.FirstName)
	assert.Equal(t, "Rao", req.LastName)
	assert.Equal(t, "Physics", req.Major)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := RegisterRequest{Major: "CS <script>alert('x')</script>"}
	SanitizeStruct(&req)

	assert.Contains(t, req.Major, "&lt;script&gt;")
	assert.NotContains(t, req.Major, "<script>")
}

func TestSanitizeStruct_SkipsPasswords(t *testing.T) {
	req := LoginRequest{Email: " a@example.com ", Password: "  p<a>ss word  "}
	SanitizeStruct(&req)

	assert.Equal(t, "a@example.com", req.Email)
	assert.Equal(t, "  p<a>ss word  ", req.Password)
}

func TestSanitizeStruct_NestedDonorInfo(t *testing.T) {
	req := CreateOrderRequest{
		DonorInfo: &DonorInfoRequest{Name: "  <b>Asha</b> ", Phone: " 98450 00000 "},
	}
	SanitizeStruct(&req)

	assert.Equal(t, "&lt;b&gt;Asha&lt;/b&gt;", req.DonorInfo.Name)
	assert.Equal(t, "98450 00000", req.DonorInfo.Phone)
	assert.Nil(t, req.Amount)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := CreateOrderRequest{IsAnonymous: true}
	SanitizeStruct(&req)
	assert.Nil(t, req.DonorInfo)

	var nilReq *CreateOrderRequest
	SanitizeStruct(nilReq)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

func TestSafeID_Valid(t *testing.T) {
	cases := []string{
		"order_IluGWxBm9U8zJ8",
		"pay_29QQoUBi66xm2f",
		"a.b.c",
		"ABC-def_GHI.123",
	}
	for _, tc := range cases {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSafeID_Invalid(t *testing.T) {
	cases := []string{
		"order 001",
		"order<001>",
		"pay;DROP",
		"",
		"ref\n001",
	}
	for _, tc := range cases {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %s", tc)
	}
}
