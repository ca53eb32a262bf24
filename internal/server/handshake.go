package server

import (
	"fmt"

	irc "gopkg.in/irc.v3"
)

// Version string advertised in the registration burst.
const serverVersion = "fake-irc-server-v0.1.0"

// Mode strings advertised in the 004 numeric. Nothing enforces them; real
// clients just expect the numeric to be well-formed.
const (
	userModes         = "CDGPRSabcdfgijklnorsuwxyz"
	channelModes      = "bciklmnopstvzeIMRS"
	channelModesParam = "bkloveI"
	createdAt         = "Sep 22 2018 at 19:19:32"
)

// sendWelcome sends the 001-005 registration burst once NICK and USER have
// both been received. Enough for a real IRC client to consider itself
// connected to a network.
func (c *Client) sendWelcome() {
	c.log.Info("registration complete", "nick", c.nick, "user", c.user)

	numerics := []*irc.Message{
		{
			Prefix:  &irc.Prefix{Name: c.serverName},
			Command: "001",
			Params: []string{c.nick, fmt.Sprintf(
				"Welcome to the Local Network, %s!%s@%s", c.nick, c.user, c.serverName)},
		},
		{
			Prefix:  &irc.Prefix{Name: c.serverName},
			Command: "002",
			Params: []string{c.nick, fmt.Sprintf(
				"Your host is %s[%s], running version %s", c.serverName, c.listenAddr, serverVersion)},
		},
		{
			Prefix:  &irc.Prefix{Name: c.serverName},
			Command: "003",
			Params:  []string{c.nick, "This server was created " + createdAt},
		},
		{
			Prefix:  &irc.Prefix{Name: c.serverName},
			Command: "004",
			Params:  []string{c.nick, c.serverName, serverVersion, userModes, channelModes, channelModesParam},
		},
		{
			Prefix:  &irc.Prefix{Name: c.serverName},
			Command: "005",
			Params:  []string{c.nick, "NICKLEN=30", "are supported by this server"},
		},
	}

	for _, msg := range numerics {
		c.reply(msg)
	}
}
