package entity

// ChannelInfo is one entry of the gateway channel-discovery response.
type ChannelInfo struct {
	Id         int    `json:"id" bson:"id"`
	Name       string `json:"name" bson:"name"`
	Logo       string `json:"logo" bson:"logo"`
	Group      string `json:"group" bson:"group"`
	GroupName  string `json:"group_name" bson:"group_name"`
	IsDisabled bool   `json:"is_disable" bson:"is_disabled"`
	IsOffline  bool   `json:"is_offline" bson:"is_offline"`
}

// AgreementForm is a consent the customer must (or may) accept on the
// checkout page, delivered alongside the channel list.
type AgreementForm struct {
	Type           string `json:"type" bson:"type"`
	Code           string `json:"code" bson:"code"`
	Label          string `json:"label" bson:"label"`
	Required       bool   `json:"required" bson:"required"`
	DefaultChecked bool   `json:"default_checked" bson:"default_checked"`
	Text           string `json:"text" bson:"text"`
}

// ChannelListResponse is the payload of
// GET payment_api/channels/?id&amount&currency&lang&format=json.
type ChannelListResponse struct {
	Channels []ChannelInfo   `json:"channels"`
	Forms    []AgreementForm `json:"forms"`
}

// Find returns the channel entry with the given id, or nil.
func (r *ChannelListResponse) Find(id int) *ChannelInfo {
	for i := range r.Channels {
		if r.Channels[i].Id == id {
			return &r.Channels[i]
		}
	}
	return nil
}
