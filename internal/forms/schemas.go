package forms

// Redirect fields are never trimmed: the redirect guard must see the
// candidate exactly as submitted.

type LoginForm struct {
	Email    string `form:"email"    label:"Email"    validate:"required,email"`
	Password string `form:"password" label:"Password" validate:"required"       trim:"false"`
	Redirect string `form:"redirect" trim:"false"`
}

type SignUpForm struct {
	Email    string `form:"email"     label:"Email"     validate:"required,email"`
	Password string `form:"password"  label:"Password"  validate:"required,min=8,bcryptlen" trim:"false"`
	FullName string `form:"full_name" label:"Full name" validate:"max=100"`
	Redirect string `form:"redirect" trim:"false"`
}

type ForgotPasswordForm struct {
	Email    string `form:"email"    label:"Email" validate:"required,email"`
	Redirect string `form:"redirect" trim:"false"`
}

type ResetPasswordForm struct {
	Token           string `form:"token"            label:"Reset link"       validate:"required"`
	Password        string `form:"password"         label:"Password"         validate:"required,min=8,bcryptlen" trim:"false"`
	ConfirmPassword string `form:"confirm_password" label:"Confirm password" validate:"eqfield=Password"      trim:"false"`
	Redirect        string `form:"redirect"         trim:"false"`
}

type UpdateEmailForm struct {
	Email    string `form:"email"    label:"Email" validate:"required,email"`
	Redirect string `form:"redirect" trim:"false"`
}

type UpdateProfileForm struct {
	FullName string `form:"full_name" label:"Full name" validate:"required,max=100"`
}

// StartsAtLayout is the value format of an <input type="datetime-local">.
const StartsAtLayout = "2006-01-02T15:04"

type CreateEventForm struct {
	Title       string `form:"title"       label:"Title"       validate:"required,max=120"`
	Slug        string `form:"slug"        label:"URL slug"    validate:"omitempty,slug"`
	Description string `form:"description" label:"Description" validate:"max=2000"`
	Location    string `form:"location"    label:"Location"    validate:"max=200"`
	StartsAt    string `form:"starts_at"   label:"Start time"  validate:"required,datetime=2006-01-02T15:04"`
	Capacity    int    `form:"capacity"    label:"Capacity"    validate:"gte=0,lte=100000"`
}
