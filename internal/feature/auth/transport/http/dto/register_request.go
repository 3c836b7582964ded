package dto

// RegisterReq is the body of POST /register. The binding tags mirror the
// checks the usecase repeats, so the form can report every field at once.
type RegisterReq struct {
	Username        string `form:"username" binding:"required,notblank,min=4,max=25"`
	Password        string `form:"password" binding:"required,notblank,min=6"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
	Role            string `form:"role" binding:"required,oneof=CLIENT CREATOR"`
}
