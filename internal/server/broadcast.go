package server

import (
	"github.com/ste616/atca-training-sub001/internal/protocol"
	"github.com/ste616/atca-training-sub001/internal/session"
)

// broadcastComputed implements spec.md §4.E's COMPUTING -> READY
// transition: "broadcast RESPONSE_VISDATA_COMPUTED to every client in
// the triggering client's username group and RESPONSE_USERREQUEST_
// SPECTRUM to every client in the group (excluding the triggerer), so
// they can re-request with the same options."
//
// §6.1's response-type table has no USERREQUEST_SPECTRUM code; its
// closest match is USERNAME_EXISTS, described there as "broadcast to
// group when a sibling changes options" — exactly this notification.
// DESIGN.md records this reconciliation as an Open Question resolution:
// every group member, the triggering client included, gets
// VISDATA_COMPUTED, and every other group member first gets
// USERNAME_EXISTS as the "a sibling changed your shared state, you may
// want to re-request" signal.
func (s *Server) broadcastComputed(triggerID session.ID) {
	trigger, ok := s.clients.ByID(triggerID)
	if !ok {
		return
	}
	trigger.Pending = false
	group := s.clients.ByUsername(trigger.Username)
	for _, c := range group {
		if c.ID == triggerID {
			s.sendResponse(c, &protocol.Response{
				Envelope: protocol.ResponseEnvelope{ResponseType: protocol.ResponseVisdataComputed, ClientID: string(c.ID)},
			})
			continue
		}
		s.sendResponse(c, &protocol.Response{
			Envelope: protocol.ResponseEnvelope{ResponseType: protocol.ResponseUsernameExists, ClientID: string(c.ID)},
			Username: trigger.Username,
		})
		s.sendResponse(c, &protocol.Response{
			Envelope: protocol.ResponseEnvelope{ResponseType: protocol.ResponseVisdataComputed, ClientID: string(c.ID)},
		})
	}
}
