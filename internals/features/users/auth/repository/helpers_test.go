package repository

import userModel "classifieds_backend/internals/features/users/user/model"

func newUser(name, email string) userModel.UserModel {
	return userModel.UserModel{UserName: name, Email: email, Password: "hash", IsActive: true}
}
