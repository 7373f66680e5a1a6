package requests

type SetValueSetBinding struct {
	ValueSetUrl string `json:"value_set_url" validate:"required"`
	DisplayName string `json:"display_name"`
}
