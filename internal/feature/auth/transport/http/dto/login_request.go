// Package dto defines the form payloads for the auth feature's HTTP transport layer.
package dto

// LoginReq is the body of POST /login.
type LoginReq struct {
	Username string `form:"username" binding:"required,notblank"`
	Password string `form:"password" binding:"required,notblank"`
}
