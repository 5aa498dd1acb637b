package state

import (
	"fmt"
	"regexp"
)

var namePattern = regexp.MustCompile("^[0-9a-z._-]+$")

func NameValidator(s string) error {
	if !namePattern.MatchString(s) {
		return fmt.Errorf("%s is not a valid name, must match pattern %s", s, namePattern.String())
	}
	if len(s) > 100 {
		return fmt.Errorf("len(%q) = %d > 100 is too long", s, len(s))
	}
	return nil
}

func CentralConfigValidator(cfg *CentralCfg) error {
	seenIds := make(map[NodeId]struct{})
	seenAddrs := make(map[Addr]struct{})
	for _, node := range cfg.Nodes {
		if err := NameValidator(string(node.Id)); err != nil {
			return err
		}
		if _, ok := seenIds[node.Id]; ok {
			return fmt.Errorf("duplicate node id: %s", node.Id)
		}
		seenIds[node.Id] = struct{}{}
		if node.Address <= 0 {
			return fmt.Errorf("node %s: address must be positive", node.Id)
		}
		if _, ok := seenAddrs[node.Address]; ok {
			return fmt.Errorf("node %s: duplicate address %d", node.Id, node.Address)
		}
		seenAddrs[node.Address] = struct{}{}
		switch node.Role {
		case RolePC, RoleDNS, RoleHTTP, RoleDB, RoleMail, RoleRouter:
		default:
			return fmt.Errorf("node %s: unknown role %q", node.Id, node.Role)
		}
		if node.Role == RolePC && node.DnsAddr == 0 {
			return fmt.Errorf("node %s: pc requires dns_addr", node.Id)
		}
		if node.Role == RoleRouter {
			switch node.Routing {
			case RoutingStatic, RoutingDistanceVector, RoutingLinkState, "":
			default:
				return fmt.Errorf("node %s: unknown routing protocol %q", node.Id, node.Routing)
			}
		}
		switch node.Protocol {
		case "", "TCP", "UDP", "AUTO":
		default:
			return fmt.Errorf("node %s: unknown protocol %q", node.Id, node.Protocol)
		}
	}
	seenLinks := make(map[[2]NodeId]struct{})
	for _, link := range cfg.Links {
		if _, ok := seenIds[link.A]; !ok {
			return fmt.Errorf("link %s <-> %s: node %s not defined", link.A, link.B, link.A)
		}
		if _, ok := seenIds[link.B]; !ok {
			return fmt.Errorf("link %s <-> %s: node %s not defined", link.A, link.B, link.B)
		}
		if link.A == link.B {
			return fmt.Errorf("link %s <-> %s: self link", link.A, link.B)
		}
		key := [2]NodeId{link.A, link.B}
		if link.B < link.A {
			key = [2]NodeId{link.B, link.A}
		}
		if _, ok := seenLinks[key]; ok {
			return fmt.Errorf("duplicate link: %s <-> %s", link.A, link.B)
		}
		seenLinks[key] = struct{}{}
		if link.Bandwidth < 0 {
			return fmt.Errorf("link %s <-> %s: negative bandwidth", link.A, link.B)
		}
	}
	return nil
}
