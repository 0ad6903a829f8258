package dynamodb

import "fmt"

// Single-table design: every item carries PK=OWNER#<ownerId>, with SK and
// an EntityType attribute distinguishing the four entity kinds. GSI1 supports the
// content-hash exact-duplicate lookup for engrams and the entity/attribute
// lookup for chronicles; synapses and nexuses have no GSI1 keys.
//
//	PK              SK                        EntityType  GSI1PK                    GSI1SK
//	OWNER#<ownerId> ENGRAM#<engramId>          ENGRAM      HASH#<ownerId>#<hash>      ENGRAM
//	OWNER#<ownerId> SYNAPSE#<src>#<tgt>        SYNAPSE
//	OWNER#<ownerId> CHRONICLE#<chronicleId>    CHRONICLE   ENTITY#<ownerId>#<entity>  CHRONICLE#<attribute>
//	OWNER#<ownerId> NEXUS#<nexusId>            NEXUS
const gsi1IndexName = "GSI1"

func ownerPK(ownerID string) string { return fmt.Sprintf("OWNER#%s", ownerID) }

func engramSK(id string) string  { return fmt.Sprintf("ENGRAM#%s", id) }
func synapseSK(sourceID, targetID string) string {
	return fmt.Sprintf("SYNAPSE#%s#%s", sourceID, targetID)
}
func chronicleSK(id string) string { return fmt.Sprintf("CHRONICLE#%s", id) }
func nexusSK(id string) string     { return fmt.Sprintf("NEXUS#%s", id) }

func contentHashGSI1PK(ownerID, hash string) string {
	return fmt.Sprintf("HASH#%s#%s", ownerID, hash)
}

func entityGSI1PK(ownerID, entity string) string {
	return fmt.Sprintf("ENTITY#%s#%s", ownerID, entity)
}

func chronicleGSI1SK(attribute string) string {
	return fmt.Sprintf("CHRONICLE#%s", attribute)
}
