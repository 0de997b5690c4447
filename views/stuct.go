package views

type UserController struct {
}
